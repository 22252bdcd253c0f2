package model

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := &Error{Kind: KindAuth, Op: "list files", Status: 401}

	if !errors.Is(err, ErrAuth) {
		t.Error("Expected auth error to match ErrAuth")
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("Auth error should not match ErrNetwork")
	}

	wrapped := fmt.Errorf("refresh: %w", err)
	if !errors.Is(wrapped, ErrAuth) {
		t.Error("Expected wrapped auth error to match ErrAuth")
	}
}

func TestError_Unwrap(t *testing.T) {
	err := NewError(KindDownload, "write chunk", io.ErrShortWrite)

	if !errors.Is(err, io.ErrShortWrite) {
		t.Error("Expected error to unwrap to io.ErrShortWrite")
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindDownload, Op: "fetch", Status: 404}
	msg := err.Error()

	if !strings.Contains(msg, "fetch") || !strings.Contains(msg, "404") {
		t.Errorf("Unexpected error message: %s", msg)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err      error
		expected ErrorKind
	}{
		{nil, KindUnknown},
		{io.EOF, KindUnknown},
		{ErrBusy, KindBusy},
		{fmt.Errorf("outer: %w", NewError(KindNetwork, "get", io.EOF)), KindNetwork},
	}

	for _, test := range tests {
		if got := KindOf(test.err); got != test.expected {
			t.Errorf("KindOf(%v) = %v, expected %v", test.err, got, test.expected)
		}
	}
}
