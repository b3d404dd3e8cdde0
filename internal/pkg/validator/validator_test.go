package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type watchRequest struct {
	Contract string `validate:"required,eth_addr"`
	Subject  string `validate:"required,eth_addr"`
	Level    string `validate:"omitempty,oneof=debug info"`
}

func TestValidate(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		err := Validate(watchRequest{
			Contract: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			Subject:  "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		})
		assert.NoError(t, err)
	})

	t.Run("reports every failing field", func(t *testing.T) {
		err := Validate(watchRequest{
			Contract: "not-an-address",
			Level:    "trace",
		})

		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "watchRequest.Contract")
		assert.Contains(t, err.Error(), "watchRequest.Subject")
		assert.Contains(t, err.Error(), "'oneof'")
	})

	t.Run("non struct input is returned as is", func(t *testing.T) {
		err := Validate(42)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrValidationFailed)
	})
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("address", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "eth_addr"))

	err := Var("address", "0x123", "eth_addr")
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "'address'")
}
