package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Message string `form:"message" validate:"required,max=10"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	v := New()

	require.NoError(t, v.Struct(contact{Name: "Sam", Email: "sam@example.com", Message: "hi"}))

	err := v.Struct(contact{Email: "nope", Message: "this is far too long"})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["name"])
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "must be at most 10 characters", verr.Fields["message"])
	assert.Contains(t, err.Error(), "email: must be a valid email address")
}

func TestEmail(t *testing.T) {
	t.Parallel()

	v := New()
	assert.True(t, v.Email("climber@example.com"))
	assert.True(t, v.Email("  climber@example.com "))
	assert.False(t, v.Email(""))
	assert.False(t, v.Email("climber@"))
	assert.False(t, v.Email("not an email"))
}
