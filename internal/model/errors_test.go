package model

import (
	"strings"
	"testing"
)

func TestAPIError_ErrorFormat(t *testing.T) {
	err := NewForbiddenOwnerError()

	got := err.Error()
	if !strings.HasPrefix(got, "["+ErrCodeForbiddenOwner+"]") {
		t.Errorf("Error() = %q, want prefix %q", got, "["+ErrCodeForbiddenOwner+"]")
	}
}

func TestNewListingNotFoundError_IncludesID(t *testing.T) {
	err := NewListingNotFoundError("listing-1")

	if !strings.Contains(err.Message, "listing-1") {
		t.Errorf("message = %q, want to contain %q", err.Message, "listing-1")
	}
	if err.Category != "marketplace" {
		t.Errorf("category = %q, want %q", err.Category, "marketplace")
	}
}

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		err  *APIError
		want string
	}{
		{NewAuthNotConfiguredError(), "system"},
		{NewUnauthorizedError(), "auth"},
		{NewInvalidTokenError(), "auth"},
		{NewForbiddenOwnerError(), "auth"},
		{NewInvalidRequestError(), "validation"},
		{NewValidationFailedError("name (required)"), "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			if tt.err.Category != tt.want {
				t.Errorf("category = %q, want %q", tt.err.Category, tt.want)
			}
		})
	}
}
