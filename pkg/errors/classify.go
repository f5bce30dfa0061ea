package errors

import (
	"context"
	"errors"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/sankey"
)

var sentinels = []struct {
	err  error
	code Code
}{
	{flow.ErrInvalidNodeID, ErrCodeInvalidInput},
	{flow.ErrDuplicateNodeID, ErrCodeDuplicateNode},
	{flow.ErrInvalidReference, ErrCodeInvalidReference},
	{flow.ErrSelfLoop, ErrCodeSelfLoop},
	{flow.ErrInvalidValue, ErrCodeInvalidValue},
	{flow.ErrCyclicGraph, ErrCodeCyclicGraph},
	{sankey.ErrDegenerateCanvas, ErrCodeDegenerateCanvas},
	{sankey.ErrInvalidOptions, ErrCodeInvalidInput},
}

// Classify attaches an error code to err. Errors that already carry a code,
// context errors and nil are returned unchanged. Known sentinel errors from
// the layout packages get their matching code; anything else becomes
// ErrCodeInternal. The original error stays reachable through Unwrap.
func Classify(err error) error {
	if err == nil || GetCode(err) != "" {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return &Error{Code: s.code, Message: err.Error(), Cause: err}
		}
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
}

// IsInputError reports whether the error code describes bad input rather
// than a failure of the system.
func IsInputError(code Code) bool {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidReference, ErrCodeSelfLoop,
		ErrCodeDuplicateNode, ErrCodeInvalidValue, ErrCodeInvalidFormat,
		ErrCodeInvalidStyle, ErrCodeInvalidVizType, ErrCodeInvalidPath,
		ErrCodeCyclicGraph, ErrCodeDegenerateCanvas:
		return true
	}
	return false
}
