package validator_test

import (
	"eventro/shared/validator"
	"strings"
	"testing"
)

type bookingRequestStruct struct {
	Name     string `validate:"required" json:"name"`
	Email    string `validate:"required,email" json:"email"`
	Seats    int    `validate:"gte=1,lte=50" json:"seats"`
	Category string `validate:"oneof=wedding birthday corporate" json:"category"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *bookingRequestStruct
		expectError bool
	}{
		{
			name: "valid struct",
			data: &bookingRequestStruct{
				Name:     "Rahim Uddin",
				Email:    "rahim@example.com",
				Seats:    10,
				Category: "wedding",
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &bookingRequestStruct{
				Email:    "rahim@example.com",
				Seats:    10,
				Category: "wedding",
			},
			expectError: true,
		},
		{
			name: "invalid email",
			data: &bookingRequestStruct{
				Name:     "Rahim Uddin",
				Email:    "invalid-email",
				Seats:    10,
				Category: "wedding",
			},
			expectError: true,
		},
		{
			name: "seats out of range",
			data: &bookingRequestStruct{
				Name:     "Rahim Uddin",
				Email:    "rahim@example.com",
				Seats:    120,
				Category: "wedding",
			},
			expectError: true,
		},
		{
			name: "invalid category",
			data: &bookingRequestStruct{
				Name:     "Rahim Uddin",
				Email:    "rahim@example.com",
				Seats:    10,
				Category: "concert",
			},
			expectError: true,
		},
		{
			name: "zero seats",
			data: &bookingRequestStruct{
				Name:     "Rahim Uddin",
				Email:    "rahim@example.com",
				Seats:    0,
				Category: "wedding",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       interface{}
		tag         string
		expectError bool
	}{
		{
			name:        "valid required string",
			field:       "test",
			tag:         "required",
			expectError: false,
		},
		{
			name:        "empty required string",
			field:       "",
			tag:         "required",
			expectError: true,
		},
		{
			name:        "valid email",
			field:       "test@example.com",
			tag:         "email",
			expectError: false,
		},
		{
			name:        "invalid email",
			field:       "invalid-email",
			tag:         "email",
			expectError: true,
		},
		{
			name:        "valid number in range",
			field:       25,
			tag:         "gte=0,lte=100",
			expectError: false,
		},
		{
			name:        "number out of range",
			field:       150,
			tag:         "gte=0,lte=100",
			expectError: true,
		},
		{
			name:        "valid oneof",
			field:       "confirmed",
			tag:         "oneof=pending confirmed cancelled",
			expectError: false,
		},
		{
			name:        "invalid oneof",
			field:       "archived",
			tag:         "oneof=pending confirmed cancelled",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"name":"Rahim Uddin","email":"rahim@example.com","seats":10,"category":"wedding"}`,
			expectError: false,
		},
		{
			name:        "invalid email in JSON",
			jsonBody:    `{"name":"Rahim Uddin","email":"invalid-email","seats":10,"category":"wedding"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"name":"Rahim Uddin","email":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := strings.NewReader(tt.jsonBody)
			var data bookingRequestStruct
			err := validator.Validate(reader, &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	data := &bookingRequestStruct{}
	err := validator.ValidateStruct(data)

	if err == nil {
		t.Fatal("expected validation error for empty struct")
	}

	errorMsg := err.Error()

	if !strings.Contains(errorMsg, "required") || errorMsg == "" {
		t.Errorf("expected descriptive error message containing 'required', got: %s", errorMsg)
	}
}
