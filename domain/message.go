// Package domain contains the message value type and the named property
// table used to inspect and mutate it by key.
package domain

import (
	"message-lab/errors"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const MessageTypeName = "Message"

var validate = validator.New()

// Message is a titled piece of text. Both fields may be reassigned at any
// time by whoever holds the value; nothing derived from them is cached.
type Message struct {
	Title string
	Text  string

	// properties defined at runtime, in definition order
	defined map[string]*PropertyDescriptor
	order   []string
	sealed  bool
}

// NewMessage accepts any title and text, empty ones included.
func NewMessage(title, text string) *Message {
	return &Message{Title: title, Text: text}
}

func (m *Message) TypeName() string {
	return MessageTypeName
}

// FullMessage returns "<title>: <text>" from the current field values.
func (m *Message) FullMessage() string {
	return m.Title + ": " + m.Text
}

// HasTitleLongerThan reports whether the title holds more than length characters.
// A length lower or equal to zero is rejected with ErrNonPositiveLength.
func (m *Message) HasTitleLongerThan(length int) (bool, error) {
	if err := validate.Var(length, "gt=0"); err != nil {
		return false, errors.ErrNonPositiveLength
	}
	return utf8.RuneCountInString(m.Title) > length, nil
}
