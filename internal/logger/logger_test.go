package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func resetLogger(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		Logger = zap.NewNop().Sugar()
		JSONOutput = false
	})
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		verbosity  int
		jsonOutput bool
		wantErr    bool
	}{
		{name: "console quiet", verbosity: 0},
		{name: "console verbose", verbosity: 1},
		{name: "json debug", verbosity: 2, jsonOutput: true},
		{name: "negative verbosity", verbosity: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLogger(t)
			var buf bytes.Buffer
			err := Initialize(&buf, tt.verbosity, tt.jsonOutput)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.NotNil(t, Logger)
		})
	}
}

func TestInitializeNilDestination(t *testing.T) {
	resetLogger(t)
	require.Error(t, Initialize(nil, 0, false))
}

func TestVerbosityGatesInfo(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	require.NoError(t, Initialize(&buf, VerbosityUser, false))
	Logger.Infow("hidden")
	Logger.Warnw("shown", FieldCount, 3)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "count")
}

func TestJSONFields(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	require.NoError(t, Initialize(&buf, VerbosityInfo, true))
	ComponentLogger("pipeline").Infow("finished", FieldEmitted, 2, FieldDropped, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "finished", entry["msg"])
	assert.Equal(t, "pipeline", entry["logger"])
	assert.EqualValues(t, 2, entry[FieldEmitted])
	assert.EqualValues(t, 1, entry[FieldDropped])
}

func TestChildLoggerCarriesFields(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	require.NoError(t, Initialize(&buf, VerbosityInfo, true))
	ChildLogger(ComponentLogger("convert"), FieldFile, "release.xml.gz").Infow("started", FieldFormat, "vcf")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "convert", entry["logger"])
	assert.Equal(t, "release.xml.gz", entry[FieldFile])
	assert.Equal(t, "vcf", entry[FieldFormat])
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}
