package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breathe-backend/pkg/errors"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=5"`
	Mood     *int   `json:"preMood,omitempty" validate:"omitempty,min=1,max=5"`
	Sort     string `json:"sort" validate:"omitempty,oneof=name difficulty"`
	Reminder string `json:"reminderTime" validate:"omitempty,datetime=15:04"`
}

func TestValidateStruct(t *testing.T) {
	six := 6
	tests := []struct {
		name    string
		input   sample
		field   string
		message string
	}{
		{"missing email", sample{}, "email", "email is required"},
		{"bad email", sample{Email: "x"}, "email", "email must be a valid email"},
		{"long name", sample{Email: "a@b.co", Name: "abcdefg"}, "name", "name must be at most 5 characters"},
		{"mood range", sample{Email: "a@b.co", Mood: &six}, "preMood", "preMood must be at most 5"},
		{"sort value", sample{Email: "a@b.co", Sort: "rank"}, "sort", "sort must be one of: name difficulty"},
		{"reminder format", sample{Email: "a@b.co", Reminder: "9am"}, "reminderTime", "reminderTime must match format 15:04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)

			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
			require.Len(t, appErr.Fields, 1)
			assert.Equal(t, tt.field, appErr.Fields[0].Field)
			assert.Equal(t, tt.message, appErr.Fields[0].Message)
		})
	}

	assert.NoError(t, ValidateStruct(sample{Email: "a@b.co", Name: "Ada", Reminder: "07:30"}))
}
