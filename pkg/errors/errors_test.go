package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/sankey"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to render")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	if got, want := err.Error(), "INTERNAL_ERROR: failed to render: underlying error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNotFound,
			expected: false,
		},
		{
			name:     "wrapped with fmt",
			err:      fmt.Errorf("context: %w", New(ErrCodeCyclicGraph, "cycle")),
			code:     ErrCodeCyclicGraph,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeSuperseded, "x")); got != ErrCodeSuperseded {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeSuperseded)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidFormat, "unknown format %q", "gif")); got != `unknown format "gif"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"self loop", fmt.Errorf("link 0: %w", flow.ErrSelfLoop), ErrCodeSelfLoop},
		{"unknown node", fmt.Errorf("link 0: %w", flow.ErrInvalidReference), ErrCodeInvalidReference},
		{"duplicate", flow.ErrDuplicateNodeID, ErrCodeDuplicateNode},
		{"value", flow.ErrInvalidValue, ErrCodeInvalidValue},
		{"empty ID", flow.ErrInvalidNodeID, ErrCodeInvalidInput},
		{"cycle", fmt.Errorf("%w: [A B]", flow.ErrCyclicGraph), ErrCodeCyclicGraph},
		{"canvas", sankey.ErrDegenerateCanvas, ErrCodeDegenerateCanvas},
		{"options", sankey.ErrInvalidOptions, ErrCodeInvalidInput},
		{"unknown", errors.New("boom"), ErrCodeInternal},
		{"already coded", New(ErrCodeInvalidStyle, "x"), ErrCodeInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if code := GetCode(got); code != tt.want {
				t.Errorf("GetCode(Classify()) = %v, want %v", code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("Classify() lost the original error: %v", got)
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
	if err := Classify(context.Canceled); err != context.Canceled {
		t.Errorf("Classify(context.Canceled) = %v", err)
	}
}

func TestClassify_MessageNotRepeated(t *testing.T) {
	err := Classify(flow.ErrSelfLoop)
	if got, want := err.Error(), "SELF_LOOP: "+flow.ErrSelfLoop.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsInputError(t *testing.T) {
	for _, code := range []Code{ErrCodeCyclicGraph, ErrCodeInvalidFormat, ErrCodeDegenerateCanvas} {
		if !IsInputError(code) {
			t.Errorf("IsInputError(%s) = false, want true", code)
		}
	}
	for _, code := range []Code{ErrCodeInternal, ErrCodeNotFound, ErrCodeSuperseded, ""} {
		if IsInputError(code) {
			t.Errorf("IsInputError(%s) = true, want false", code)
		}
	}
}
