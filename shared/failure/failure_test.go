package failure_test

import (
	"errors"
	"eventro/shared/failure"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		result  error
		code    int
		message string
	}{
		{
			name:    "NotFound",
			result:  failure.NotFound("booking not found"),
			code:    http.StatusNotFound,
			message: "booking not found",
		},
		{
			name:    "Conflict",
			result:  failure.Conflict("review already submitted for this booking"),
			code:    http.StatusConflict,
			message: "review already submitted for this booking",
		},
		{
			name:    "InvalidState",
			result:  failure.InvalidState("payment cannot be initiated for booking with status pending"),
			code:    http.StatusUnprocessableEntity,
			message: "payment cannot be initiated for booking with status pending",
		},
		{
			name:    "GatewayError",
			result:  failure.GatewayError("store credential mismatch"),
			code:    http.StatusBadGateway,
			message: "store credential mismatch",
		},
		{
			name:    "Unauthorized",
			result:  failure.Unauthorized("invalid refresh token"),
			code:    http.StatusUnauthorized,
			message: "invalid refresh token",
		},
		{
			name:    "BadRequestFromString",
			result:  failure.BadRequestFromString("custom bad request"),
			code:    http.StatusBadRequest,
			message: "custom bad request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.result.(*failure.Failure)
			if !ok {
				t.Fatalf("expected result to be *failure.Failure, got %T", tt.result)
			}

			if f.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, f.Code)
			}

			if f.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, f.Message)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for nil error")
	}

	result := failure.BadRequest(errors.New("validation failed"))

	f, ok := result.(*failure.Failure)
	if !ok {
		t.Fatalf("expected result to be *failure.Failure, got %T", result)
	}

	if f.Code != http.StatusBadRequest || f.Message != "validation failed" {
		t.Errorf("unexpected failure: %+v", f)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{
			name: "failure error",
			err:  failure.NotFound("missing"),
			code: http.StatusNotFound,
		},
		{
			name: "wrapped failure error",
			err:  errors.Join(errors.New("outer"), failure.Conflict("dup")),
			code: http.StatusConflict,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			code: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}
