package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusBadRequest, ErrorKindValidation},
		{http.StatusUnauthorized, ErrorKindAuthentication},
		{http.StatusForbidden, ErrorKindPermission},
		{http.StatusNotFound, ErrorKindNotFound},
		{http.StatusConflict, ErrorKindConflict},
		{http.StatusTooManyRequests, ErrorKindRateLimit},
		{http.StatusInternalServerError, ErrorKindServer},
		{http.StatusBadGateway, ErrorKindServer},
		{http.StatusServiceUnavailable, ErrorKindServer},
		{http.StatusGatewayTimeout, ErrorKindServer},
		{599, ErrorKindServer},
		// Unmapped 4xx codes and everything outside the table
		{http.StatusMethodNotAllowed, ErrorKindUnknown},
		{http.StatusTeapot, ErrorKindUnknown},
		{http.StatusOK, ErrorKindUnknown},
		{0, ErrorKindUnknown},
		{-1, ErrorKindUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			if got := KindFromStatus(tt.status); got != tt.want {
				t.Errorf("KindFromStatus(%d) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

func TestErrorFromStatus(t *testing.T) {
	err := ErrorFromStatus(http.StatusNotFound, "board does not exist")

	if err.Kind != ErrorKindNotFound {
		t.Errorf("Expected kind %s, got %s", ErrorKindNotFound, err.Kind)
	}
	if err.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status code 404, got %d", err.StatusCode)
	}
	if err.Message != "board does not exist" {
		t.Errorf("Expected message 'board does not exist', got %q", err.Message)
	}
	if err.Code != "" {
		t.Errorf("Expected empty machine code, got %q", err.Code)
	}
}

func TestAPIErrorError(t *testing.T) {
	withStatus := NewAPIErrorWithStatus(ErrorKindRateLimit, "too many requests", 429)
	if withStatus.Error() != "too many requests (rate_limit, status 429)" {
		t.Errorf("Unexpected error string: %q", withStatus.Error())
	}

	withoutStatus := NewAPIError(ErrorKindNetwork, "connection refused")
	if withoutStatus.Error() != "connection refused (network)" {
		t.Errorf("Unexpected error string: %q", withoutStatus.Error())
	}
}

func TestAsAPIError(t *testing.T) {
	apiErr := NewAPIErrorWithCode(ErrorKindValidation, "bad sprint state", 400, "INVALID_STATE")

	// Direct value
	got, ok := AsAPIError(apiErr)
	if !ok {
		t.Fatal("Expected AsAPIError to match a *APIError")
	}
	if got.Code != "INVALID_STATE" {
		t.Errorf("Expected code INVALID_STATE, got %q", got.Code)
	}

	// Wrapped value
	wrapped := fmt.Errorf("calling Jira: %w", apiErr)
	got, ok = AsAPIError(wrapped)
	if !ok {
		t.Fatal("Expected AsAPIError to unwrap a wrapped *APIError")
	}
	if got != apiErr {
		t.Error("Expected the original *APIError after unwrapping")
	}

	// Plain error
	if _, ok := AsAPIError(errors.New("boom")); ok {
		t.Error("Expected no match for a plain error")
	}

	// Nil error
	if _, ok := AsAPIError(nil); ok {
		t.Error("Expected no match for nil")
	}
}
