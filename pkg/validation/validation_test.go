package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ringkasan/pkg/apperror"
)

type request struct {
	Name       string   `json:"name" validate:"notblank"`
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
	Port       int      `json:"port" validate:"min=1,max=65535"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(request{Name: "a", Recipients: []string{"a@example.com"}, Port: 25}))

	err := Struct(request{Name: "  ", Recipients: []string{"nope"}, Port: 0})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "name must not be blank")
	assert.Contains(t, err.Error(), "recipients[0] must be a valid email address")
	assert.Contains(t, err.Error(), "port must be 1 or greater")
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("a@example.com", "email"))

	err := Var("x", "email")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}
