package domain

import (
	"github.com/google/uuid"
)

type CreateMessageCommand struct {
	Title string
	Text  string
}

type CallCommand struct {
	MessageID uuid.UUID `validate:"required"`
	Method    string    `validate:"required"`
	Args      []any
}

type DefinePropertyCommand struct {
	MessageID  uuid.UUID `validate:"required"`
	Key        string    `validate:"required"`
	Descriptor PropertyDescriptor
}

type SetPropertyCommand struct {
	MessageID uuid.UUID `validate:"required"`
	Key       string    `validate:"required"`
	Value     any
}

type DeletePropertyCommand struct {
	MessageID uuid.UUID `validate:"required"`
	Key       string    `validate:"required"`
}

// ValidateCommand checks the struct tags of any command above.
func ValidateCommand(cmd any) error {
	return validate.Struct(cmd)
}
