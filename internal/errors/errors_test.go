package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := WrapWithCode(fmt.Errorf("open /sys/foo: no such file"), ErrReadTransient,
		"Failed to read battery", "Check sysfs is mounted")

	out := err.Error()
	assert.Contains(t, out, "✗ Failed to read battery")
	assert.Contains(t, out, "no such file")
	assert.Contains(t, out, "Check sysfs is mounted")
	assert.Equal(t, "Failed to read battery: open /sys/foo: no such file", err.Short())
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"nil", nil, ErrConfig, false},
		{"plain error", fmt.Errorf("boom"), ErrConfig, false},
		{"matching", New(ErrConfig, "bad", ""), ErrConfig, true},
		{"wrapped", fmt.Errorf("ctx: %w", New(ErrFatalIO, "tty", "")), ErrFatalIO, true},
		{"other code", New(ErrActionFailed, "kill", ""), ErrConfig, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCode(tt.err, tt.code))
		})
	}
}

func TestSentinelsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("pid 42: %w", ErrProcessNotFound)
	assert.True(t, Is(err, ErrProcessNotFound))
	assert.False(t, Is(err, ErrPermissionDenied))
	assert.True(t, stderrors.Is(WrapWithCode(ErrUnavailable, ErrReadUnavailable, "battery", ""), ErrUnavailable))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "permission denied", Summary(ErrPermissionDenied))
	assert.Equal(t, "first line", Summary(fmt.Errorf("first line\nsecond")))
}
