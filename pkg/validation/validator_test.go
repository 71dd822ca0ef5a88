package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,account_email"`
	Password string `json:"password" validate:"required,pwd"`
	Bio      string `json:"bio" validate:"max=500"`
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("alice@example.com"))
	assert.True(t, IsEmail("a.b-c@mail.example.org"))
	assert.False(t, IsEmail("alice@"))
	assert.False(t, IsEmail("alice@example.comcom"))
	assert.False(t, IsEmail("not an email"))
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	v := validator.New()
	Register(v)

	err := v.Struct(signup{Username: "al", Email: "nope", Password: "123"})
	details := ToDetails(err)

	assert.Equal(t, "must be between 3 and 20 characters long", details["username"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
	_, ok := details["bio"]
	assert.False(t, ok)
}

func TestToDetailsNil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}
