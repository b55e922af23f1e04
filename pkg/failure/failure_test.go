package failure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
		exit int
	}{
		{name: "nil", err: nil, want: CodeUnknown, exit: 0},
		{name: "config", err: &ConfigError{Path: "x.txt", Err: os.ErrNotExist}, want: CodeConfig, exit: 2},
		{name: "io", err: &IOError{Path: "a.txt", Err: os.ErrPermission}, want: CodeIO, exit: 1},
		{name: "wrapped io", err: fmt.Errorf("run: %w", &IOError{Path: "a.txt", Err: ErrInvalidText}), want: CodeIO, exit: 1},
		{name: "panic", err: &WorkerPanic{Worker: 2, Value: "boom"}, want: CodePanic, exit: 3},
		{name: "cancel", err: context.Canceled, want: CodeCancel, exit: 130},
		{name: "plain", err: errors.New("other"), want: CodeUnknown, exit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
			assert.Equal(t, tt.exit, ExitCode(tt.err))
		})
	}
}

func TestSeverity_PanicOutranksIO(t *testing.T) {
	io := &IOError{Path: "a.txt", Err: os.ErrNotExist}
	wp := &WorkerPanic{Worker: 0, Value: "boom"}
	assert.Greater(t, Severity(wp), Severity(io))
	assert.Greater(t, Severity(io), Severity(context.Canceled))
	assert.Zero(t, Severity(nil))
}

func TestIOError_Unwrap(t *testing.T) {
	err := &IOError{Path: "b.txt", Err: ErrInvalidText}
	require.ErrorIs(t, err, ErrInvalidText)
	assert.Contains(t, err.Error(), "b.txt")

	var target *IOError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &target)
	assert.Equal(t, "b.txt", target.Path)
}
