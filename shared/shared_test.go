package shared_test

import (
	"eventro/shared"
	"eventro/shared/constant"
	"eventro/shared/dto"
	"reflect"
	"strings"
	"testing"
	"time"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{
			name:     "empty string returns nil",
			input:    "",
			expected: nil,
		},
		{
			name:     "valid true string",
			input:    "true",
			expected: boolPtr(true),
		},
		{
			name:     "valid false string",
			input:    "false",
			expected: boolPtr(false),
		},
		{
			name:     "valid 1 string",
			input:    "1",
			expected: boolPtr(true),
		},
		{
			name:     "valid 0 string",
			input:    "0",
			expected: boolPtr(false),
		},
		{
			name:     "valid TRUE string",
			input:    "TRUE",
			expected: boolPtr(true),
		},
		{
			name:     "invalid string returns nil",
			input:    "invalid",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", *result)
				}
			} else {
				if result == nil {
					t.Errorf("expected %v, got nil", *tt.expected)
				} else if *result != *tt.expected {
					t.Errorf("expected %v, got %v", *tt.expected, *result)
				}
			}
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{
			name:     "zero total returns 1",
			total:    0,
			limit:    10,
			expected: 1,
		},
		{
			name:     "zero limit returns 1",
			total:    100,
			limit:    0,
			expected: 1,
		},
		{
			name:     "negative limit returns 1",
			total:    100,
			limit:    -5,
			expected: 1,
		},
		{
			name:     "exact division",
			total:    100,
			limit:    10,
			expected: 10,
		},
		{
			name:     "division with remainder rounds up",
			total:    101,
			limit:    10,
			expected: 11,
		},
		{
			name:     "total smaller than limit",
			total:    3,
			limit:    10,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)

			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateStruct struct {
		Status   string `db:"status"`
		Location string `db:"location"`
		NoDBTag  string
		Skipped  string `db:""`
	}

	tests := []struct {
		name     string
		data     updateStruct
		username string
		expected map[string]any
	}{
		{
			name: "all populated fields with db tags",
			data: updateStruct{
				Status:   "confirmed",
				Location: "Dhaka",
				NoDBTag:  "ignored",
				Skipped:  "ignored",
			},
			username: "admin",
			expected: map[string]any{
				"status":   "confirmed",
				"location": "Dhaka",
			},
		},
		{
			name:     "all zero values",
			data:     updateStruct{},
			username: "admin",
			expected: map[string]any{},
		},
		{
			name: "partial fields",
			data: updateStruct{
				Status: "cancelled",
			},
			username: "moderator",
			expected: map[string]any{
				"status": "cancelled",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.TransformFields(tt.data, tt.username)

			if result[constant.FieldModifiedAt] == nil {
				t.Error("expected modified_at to be set")
			}
			if result[constant.FieldModifiedBy] != tt.username {
				t.Errorf("expected modified_by to be %s, got %v", tt.username, result[constant.FieldModifiedBy])
			}
			if _, ok := result[constant.FieldModifiedAt].(time.Time); !ok {
				t.Error("expected modified_at to be a time.Time")
			}

			for key, expectedValue := range tt.expected {
				if actualValue, exists := result[key]; !exists {
					t.Errorf("expected field %s to exist", key)
				} else if !reflect.DeepEqual(actualValue, expectedValue) {
					t.Errorf("expected field %s to be %v, got %v", key, expectedValue, actualValue)
				}
			}

			for key := range result {
				if key == constant.FieldModifiedAt || key == constant.FieldModifiedBy {
					continue
				}
				if _, expected := tt.expected[key]; !expected {
					t.Errorf("unexpected field %s in result", key)
				}
			}
		})
	}
}

func TestFilterByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		fieldID  string
		table    string
		expected dto.FilterGroup
	}{
		{
			name:    "basic filter by id",
			id:      "123",
			fieldID: "user_id",
			table:   "users",
			expected: dto.FilterGroup{
				Filters: []any{
					dto.Filter{
						Field:    "user_id",
						Value:    "123",
						Operator: dto.FilterOperatorEq,
						Table:    "users",
					},
				},
			},
		},
		{
			name:    "filter with empty table",
			id:      "456",
			fieldID: "id",
			table:   "",
			expected: dto.FilterGroup{
				Filters: []any{
					dto.Filter{
						Field:    "id",
						Value:    "456",
						Operator: dto.FilterOperatorEq,
						Table:    "",
					},
				},
			},
		},
		{
			name:    "filter with uuid",
			id:      "550e8400-e29b-41d4-a716-446655440000",
			fieldID: "id",
			table:   "bookings",
			expected: dto.FilterGroup{
				Filters: []any{
					dto.Filter{
						Field:    "id",
						Value:    "550e8400-e29b-41d4-a716-446655440000",
						Operator: dto.FilterOperatorEq,
						Table:    "bookings",
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.FilterByID(tt.id, tt.fieldID, tt.table)

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %+v, got %+v", tt.expected, result)
			}
		})
	}
}

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		keys     []string
		expected string
	}{
		{
			name:     "prefix only",
			prefix:   "booking:get_all",
			keys:     nil,
			expected: "booking:get_all",
		},
		{
			name:     "prefix with single key",
			prefix:   "booking:get",
			keys:     []string{"abc-123"},
			expected: "booking:get:abc-123",
		},
		{
			name:     "prefix with multiple keys",
			prefix:   "payment:get",
			keys:     []string{"user-1", "tran-2"},
			expected: "payment:get:user-1:tran-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.BuildCacheKey(tt.prefix, tt.keys...)

			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	paramsA := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: "DESC"}
	paramsB := dto.QueryParams{Page: 2, Limit: 10, SortBy: "created_at", SortDir: "DESC"}
	filter := dto.FilterGroup{}

	keyA := shared.BuildCacheKeyWithQuery("booking:get_all", paramsA, filter)
	keyB := shared.BuildCacheKeyWithQuery("booking:get_all", paramsB, filter)

	if !strings.HasPrefix(keyA, "booking:get_all:") {
		t.Errorf("expected key to start with prefix, got %s", keyA)
	}

	if keyA == keyB {
		t.Error("expected distinct keys for distinct query params")
	}

	// Same inputs must produce the same key.
	keyA2 := shared.BuildCacheKeyWithQuery("booking:get_all", paramsA, filter)
	if keyA != keyA2 {
		t.Errorf("expected deterministic key, got %s and %s", keyA, keyA2)
	}
}
