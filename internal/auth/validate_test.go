package auth

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ValidationErrorType
	}{
		{"api 400", &genai.APIError{Code: 400, Message: "bad"}, ErrTypeInvalidKey},
		{"api 403", &genai.APIError{Code: 403, Message: "denied"}, ErrTypeInvalidKey},
		{"api 429", &genai.APIError{Code: 429, Message: "slow down"}, ErrTypeQuotaExceeded},
		{"api 503", &genai.APIError{Code: 503, Message: "unavailable"}, ErrTypeNetworkError},
		{"api 418", &genai.APIError{Code: 418, Message: "teapot"}, ErrTypeUnknown},
		{"invalid key text", errors.New("API key not valid. Please pass a valid API key."), ErrTypeInvalidKey},
		{"quota text", errors.New("Resource exhausted"), ErrTypeQuotaExceeded},
		{"network text", errors.New("dial tcp: no such host"), ErrTypeNetworkError},
		{"other", errors.New("something odd"), ErrTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got.Type != tt.want {
				t.Errorf("ClassifyError(%v).Type = %v, want %v", tt.err, got.Type, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	if ClassifyError(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestValidationErrorTypeString(t *testing.T) {
	tests := map[ValidationErrorType]string{
		ErrTypeNoKey:         "no_key",
		ErrTypeInvalidKey:    "invalid",
		ErrTypeNetworkError:  "network_error",
		ErrTypeQuotaExceeded: "quota",
		ErrTypeUnknown:       "unknown",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}
