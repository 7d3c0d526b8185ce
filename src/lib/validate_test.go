package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Name     string `validate:"required,min=2,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func TestValidateStructOK(t *testing.T) {
	err := ValidateStruct(signupForm{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret1",
	})
	assert.NoError(t, err)
}

func TestValidateStructMissingFields(t *testing.T) {
	err := ValidateStruct(signupForm{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "email is required")
	assert.Contains(t, err.Error(), "password is required")
}

func TestValidateStructBadEmail(t *testing.T) {
	err := ValidateStruct(signupForm{Name: "Ada", Email: "not-an-email", Password: "secret1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email")
}

func TestValidateStructTooShort(t *testing.T) {
	err := ValidateStruct(signupForm{Name: "Ada", Email: "ada@example.com", Password: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password must be at least 6 characters")
}
