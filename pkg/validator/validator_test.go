package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required"`
}

type stage struct {
	Name   string `json:"name" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=OPEN CLOSED"`
	Items  []item `json:"salesItems" validate:"dive"`
}

func TestMessage_ValidationErrors(t *testing.T) {
	v := validator.New()
	UseJSONNames(v)

	err := v.Struct(stage{Status: "PENDING", Items: []item{{Name: "Fee"}}})
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "status must be one of [OPEN CLOSED]")
	assert.Contains(t, msg, "salesItems[0].price is required")
}

func TestMessage_DecodeErrors(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}
	typeErr := json.Unmarshal([]byte(`{"name":5}`), &target)
	syntaxErr := json.Unmarshal([]byte(`{"name"`), &target)

	assert.Equal(t, "name must be of type string", Message(typeErr))
	assert.Equal(t, "malformed JSON body", Message(syntaxErr))
	assert.Equal(t, "invalid request body", Message(errors.New("something else")))
}
