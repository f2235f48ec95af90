package stream

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"clinvartab/internal/errors"
)

const payload = "<ReleaseSet><ClinVarSet ID=\"1\"/></ReleaseSet>\n"

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := gzip.NewWriter(&b)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return b.Bytes()
}

func xzipped(t *testing.T, s string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw, err := xz.NewWriter(&b)
	require.NoError(t, err)
	_, err = zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return b.Bytes()
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	return string(b)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		head []byte
		name string
		want Compression
	}{
		{[]byte{0x1f, 0x8b, 0x08, 0}, "x", Gzip},
		{[]byte("BZh91AY"), "", Bzip2},
		{[]byte{0xfd, '7', 'z', 'X', 'Z', 0}, "", XZ},
		{[]byte("<?xml"), "release.xml", None},
		{[]byte("<?xml"), "release.XML.GZ", Gzip},
		{nil, "a.bz2", Bzip2},
		{nil, "a.xz", XZ},
		{nil, "", None},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.head, tt.name), "%q %s", tt.head, tt.name)
	}
}

func TestOpenFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"plain.xml":  []byte(payload),
		"noext":      gzipped(t, payload),
		"rel.xml.gz": gzipped(t, payload),
		"rel.xml.xz": xzipped(t, payload),
	}
	want := map[string]Compression{"plain.xml": None, "noext": Gzip, "rel.xml.gz": Gzip, "rel.xml.xz": XZ}
	for name, data := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, data, 0o644))
		rc, c, err := Open(p, nil)
		require.NoError(t, err, name)
		assert.Equal(t, want[name], c, name)
		assert.Equal(t, payload, readAll(t, rc), name)
	}
}

func TestOpenBzip2(t *testing.T) {
	rc, c, err := Open(filepath.Join("testdata", "release.xml.bz2"), nil)
	require.NoError(t, err)
	assert.Equal(t, Bzip2, c)
	assert.Equal(t, "<ReleaseSet/>\n", readAll(t, rc))
}

func TestOpenStdin(t *testing.T) {
	for _, path := range []string{"", "-"} {
		rc, c, err := Open(path, bytes.NewReader(gzipped(t, payload)))
		require.NoError(t, err)
		assert.Equal(t, Gzip, c)
		assert.Equal(t, payload, readAll(t, rc))
	}
}

func TestOpenEmptyInput(t *testing.T) {
	rc, c, err := Open("-", bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, None, c)
	assert.Equal(t, "", readAll(t, rc))
}

func TestOpenErrors(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "missing.xml"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	p := filepath.Join(t.TempDir(), "fake.gz")
	require.NoError(t, os.WriteFile(p, []byte("not gzip at all"), 0o644))
	_, _, err = Open(p, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformed))
}

func TestCreateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.tsv", "out.tsv.gz"} {
		p := filepath.Join(dir, name)
		w, err := Create(p, nil)
		require.NoError(t, err)
		_, err = io.WriteString(w, payload)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		rc, _, err := Open(p, nil)
		require.NoError(t, err)
		assert.Equal(t, payload, readAll(t, rc), name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "out.tsv.gz"))
	require.NoError(t, err)
	assert.Equal(t, Gzip, Detect(raw, ""))
}

type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error { c.closed = true; return nil }

func TestCreateStdoutFlushesWithoutClosing(t *testing.T) {
	var out closeRecorder
	w, err := Create("-", &out)
	require.NoError(t, err)
	_, err = io.WriteString(w, "row\n")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len(), "buffered until close")
	require.NoError(t, w.Close())
	assert.Equal(t, "row\n", out.String())
	assert.False(t, out.closed)
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, IsBrokenPipe(syscall.EPIPE))
	assert.True(t, IsBrokenPipe(errors.Wrap(&os.PathError{Op: "write", Path: "/dev/stdout", Err: syscall.EPIPE}, "flush")))
	assert.True(t, IsBrokenPipe(io.ErrClosedPipe))
	assert.False(t, IsBrokenPipe(nil))
	assert.False(t, IsBrokenPipe(io.EOF))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
	assert.False(t, IsTerminal(nil))

	f, err := os.CreateTemp(t.TempDir(), "x")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
