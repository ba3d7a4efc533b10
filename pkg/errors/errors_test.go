package errors

import (
	stderrors "errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidTrace, "trace %s: no steps", "x.json")
	if got := err.Error(); got != "INVALID_TRACE: trace x.json: no steps" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrCodeInvalidTrace) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeStore) {
		t.Error("Is() = true for different code")
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeStore, cause, "save run %s", "r1")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause lost from chain")
	}
	if GetCode(err) != ErrCodeStore {
		t.Errorf("code = %v, want STORE_ERROR", GetCode(err))
	}
	if got := err.Error(); got != "STORE_ERROR: save run r1: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestGetCodeUnstructured(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("code = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	structured := Wrap(ErrCodeCache, stderrors.New("disk full"), "write layout")
	if got := UserMessage(structured); got != "write layout" {
		t.Errorf("UserMessage = %q, want message without code and cause", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestIsThroughChain(t *testing.T) {
	inner := New(ErrCodeLayoutNotFound, "run r1 not found")
	outer := Wrap(ErrCodeStore, inner, "load run")

	// As finds the outermost structured error first.
	if GetCode(outer) != ErrCodeStore {
		t.Errorf("outer code = %v", GetCode(outer))
	}
	if !stderrors.Is(outer, error(inner)) {
		t.Error("inner error lost from chain")
	}
}
