package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tair/eco-catalog/pkg/apperror"
)

type signup struct {
	Name   string `json:"name" validate:"notblank"`
	Email  string `json:"email" validate:"required,email"`
	Age    int    `json:"age" validate:"min=1,max=150"`
	Search string `json:"search" validate:"max=5"`
}

func TestValidateStruct(t *testing.T) {
	valid := signup{Name: "Ada", Email: "ada@example.com", Age: 30}

	tests := []struct {
		name    string
		mutate  func(*signup)
		field   string
		message string
	}{
		{"blank name", func(s *signup) { s.Name = "   " }, "name", "name is required"},
		{"bad email", func(s *signup) { s.Email = "nope" }, "email", "email must be a valid email address"},
		{"age too low", func(s *signup) { s.Age = 0 }, "age", "age must be at least 1"},
		{"age too high", func(s *signup) { s.Age = 151 }, "age", "age must be at most 150"},
		{"long search", func(s *signup) { s.Search = "abcdef" }, "search", "search must be at most 5 characters"},
	}

	require.NoError(t, ValidateStruct(&valid))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			err := ValidateStruct(&s)
			require.Error(t, err)

			appErr := apperror.As(err)
			assert.Equal(t, apperror.CodeInvalidArgument, appErr.Code)
			assert.Equal(t, tt.field, appErr.Field)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}
