package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"wrapped truncated", Wrapf(ErrTruncated, "record %d", 3), ErrTruncated},
		{"double wrapped malformed", Wrap(Wrap(ErrMalformed, "parse"), "record 1"), ErrMalformed},
		{"marked foreign error", Mark(Wrap(io.ErrUnexpectedEOF, "read"), ErrTruncated), ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Is(tt.err, tt.want))
			assert.True(t, IsFatalInput(tt.err))
		})
	}
}

func TestIsFatalInput(t *testing.T) {
	assert.False(t, IsFatalInput(nil))
	assert.False(t, IsFatalInput(ErrUsage))
	assert.False(t, IsFatalInput(io.EOF))
}

func TestAssertionFailure(t *testing.T) {
	err := AssertionFailedf("header written twice")
	assert.True(t, HasAssertionFailure(err))
	assert.True(t, HasAssertionFailure(Wrap(err, "sink")))
	assert.False(t, HasAssertionFailure(ErrMalformed))
}
