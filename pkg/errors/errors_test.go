// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code lookup

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/fpm/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "no_match_error",
			code:    errors.ErrNoMatch,
			message: "no rule matched 3",
			wantStr: "[NO_MATCH] no rule matched 3",
		},
		{
			name:    "pattern_config_error",
			code:    errors.ErrPatternConfig,
			message: "range length unset",
			wantStr: "[PATTERN_CONFIG] range length unset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrNameResolution, "name %q is not defined", "y")
	if err.Message != `name "y" is not defined` {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		if err.Code != errors.ErrInternal {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrInternal)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[INTERNAL] internal error: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrInternal, "internal error"); err != nil {
			t.Error("Wrap(nil) should return nil")
		}
		if err := errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrParse, "unexpected token").
		WithDetail("position", 4).
		WithDetails(map[string]interface{}{"snippet": "x :: "})

	if err.Details["position"] != 4 {
		t.Errorf("WithDetail() position = %v, want 4", err.Details["position"])
	}
	if err.Details["snippet"] != "x :: " {
		t.Errorf("WithDetails() snippet = %v", err.Details["snippet"])
	}
	if got := errors.GetErrorDetails(err); got["position"] != 4 {
		t.Errorf("GetErrorDetails() = %v", got)
	}
	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails() on a plain error should be nil")
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNoMatch, "error 1")
	err2 := errors.New(errors.ErrNoMatch, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !err1.Is(err2) {
		t.Error("Is() should return true for same code")
	}
	if err1.Is(err3) {
		t.Error("Is() should return false for different codes")
	}
	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should work with FpmError")
	}
}

// coded mimics positioned errors that expose their code through a method.
type coded struct{}

func (coded) Error() string          { return "coded" }
func (coded) Code() errors.ErrorCode { return errors.ErrParse }

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", errors.New(errors.ErrNoMatch, "x"), errors.ErrNoMatch, true},
		{"different_code", errors.New(errors.ErrNoMatch, "x"), errors.ErrInternal, false},
		{"wrapped_error", errors.Wrap(stderrors.New("base"), errors.ErrConfigLoad, "load"), errors.ErrConfigLoad, true},
		{"fmt_wrapped", fmt.Errorf("outer: %w", errors.New(errors.ErrGuardEval, "x")), errors.ErrGuardEval, true},
		{"code_method", fmt.Errorf("outer: %w", coded{}), errors.ErrParse, true},
		{"standard_error", stderrors.New("standard error"), errors.ErrNotFound, false},
		{"nil_error", nil, errors.ErrUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrInvalidHandler, "x")); got != errors.ErrInvalidHandler {
		t.Errorf("GetErrorCode() = %v", got)
	}
	if got := errors.GetErrorCode(stderrors.New("standard")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want UNKNOWN", got)
	}
	if got := errors.GetErrorCode(nil); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(nil) = %v, want UNKNOWN", got)
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	parseErr := errors.Wrap(rootCause, errors.ErrConfigParse, "cannot parse rules.toml")
	loadErr := errors.Wrap(parseErr, errors.ErrConfigLoad, "failed to load rules")

	if !errors.IsErrorCode(loadErr, errors.ErrConfigLoad) {
		t.Error("Top level should have ErrConfigLoad code")
	}

	var fpmErr *errors.FpmError
	if stderrors.As(loadErr.Unwrap(), &fpmErr) && fpmErr.Code != errors.ErrConfigParse {
		t.Error("Middle error should have ErrConfigParse code")
	}

	if !stderrors.Is(loadErr, rootCause) {
		t.Error("Should find root cause with errors.Is")
	}
}
