package domain

import (
	"message-lab/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var sport = PropertyDescriptor{Value: "Sport", Writable: true, Enumerable: true, Configurable: true}

func TestMessage_Builtin_Properties(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("MESSAGE TITLE", "MESSAGE TEXT")

	req.True(msg.Has(KeyTitle))
	req.True(msg.Has(KeyText))
	req.True(msg.Has(KeyFullMessage))
	req.False(msg.Has("category"))

	value, ok := msg.Get(KeyFullMessage)
	req.True(ok)
	req.Equal("MESSAGE TITLE: MESSAGE TEXT", value)

	_, ok = msg.Get("missing")
	req.False(ok)

	req.Equal([]string{KeyTitle, KeyText}, msg.OwnKeys())
}

func TestMessage_DefineProperty_Then_Delete(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("MESSAGE TITLE", "MESSAGE TEXT")

	// Given a category defined at runtime
	req.True(msg.DefineProperty("category", sport))
	req.True(msg.Has("category"))
	req.Equal([]string{KeyTitle, KeyText, "category"}, msg.OwnKeys())

	desc, ok := msg.GetOwnPropertyDescriptor("category")
	req.True(ok)
	req.Equal(sport, desc)

	// When it is deleted
	req.True(msg.DeleteProperty("category"))

	// Then it is gone
	req.False(msg.Has("category"))
	req.Equal([]string{KeyTitle, KeyText}, msg.OwnKeys())
	_, ok = msg.GetOwnPropertyDescriptor("category")
	req.False(ok)
}

func TestMessage_OwnKeys_Keeps_Definition_Order(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("t", "x")
	for _, key := range []string{"zeta", "alpha", "mid"} {
		req.True(msg.DefineProperty(key, sport))
	}
	req.True(msg.DeleteProperty("alpha"))
	req.Equal([]string{KeyTitle, KeyText, "zeta", "mid"}, msg.OwnKeys())
}

func TestMessage_Set_Title_Updates_Descriptor(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("MESSAGE TITLE", "MESSAGE TEXT")

	desc, ok := msg.GetOwnPropertyDescriptor(KeyTitle)
	req.True(ok)
	req.Equal(PropertyDescriptor{Value: "MESSAGE TITLE", Writable: true, Enumerable: true}, desc)

	req.NoError(msg.Set(KeyTitle, "XXX"))
	req.Equal("XXX", msg.Title)

	desc, ok = msg.GetOwnPropertyDescriptor(KeyTitle)
	req.True(ok)
	req.Equal("XXX", desc.Value)
	req.Equal("XXX: MESSAGE TEXT", msg.FullMessage())
}

func TestMessage_Set_Errors(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("MESSAGE TITLE", "MESSAGE TEXT")

	req.ErrorIs(msg.Set(KeyTitle, 42), errors.ErrInvalidArgument)
	req.Equal("MESSAGE TITLE", msg.Title)
	req.ErrorIs(msg.Set(KeyFullMessage, "x"), errors.ErrReadOnlyProperty)
	req.ErrorIs(msg.Set("", "x"), errors.ErrInvalidArgument)

	req.True(msg.DefineProperty("frozen", PropertyDescriptor{Value: 1}))
	req.ErrorIs(msg.Set("frozen", 2), errors.ErrReadOnlyProperty)

	msg.PreventExtensions()
	req.False(msg.IsExtensible())
	req.ErrorIs(msg.Set("new", "x"), errors.ErrNotExtensible)
	req.False(msg.Has("new"))
}

func TestMessage_Set_Adds_Property_When_Extensible(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("t", "x")
	req.True(msg.IsExtensible())

	req.NoError(msg.Set("priority", 3))
	desc, ok := msg.GetOwnPropertyDescriptor("priority")
	req.True(ok)
	req.Equal(PropertyDescriptor{Value: 3, Writable: true, Enumerable: true, Configurable: true}, desc)

	req.NoError(msg.Set("priority", 4))
	value, _ := msg.Get("priority")
	req.Equal(4, value)
}

func TestMessage_DefineProperty_Rules(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("t", "x")

	req.False(msg.DefineProperty("", sport))
	req.False(msg.DefineProperty(KeyFullMessage, sport))
	// Built-in fields keep their attributes
	req.False(msg.DefineProperty(KeyTitle, sport))
	req.False(msg.DefineProperty(KeyTitle, PropertyDescriptor{Value: 1, Writable: true, Enumerable: true}))
	req.True(msg.DefineProperty(KeyTitle, PropertyDescriptor{Value: "new", Writable: true, Enumerable: true}))
	req.Equal("new", msg.Title)

	// Non-configurable and non-writable cannot change
	locked := PropertyDescriptor{Value: "v"}
	req.True(msg.DefineProperty("locked", locked))
	req.True(msg.DefineProperty("locked", locked))
	req.False(msg.DefineProperty("locked", PropertyDescriptor{Value: "other"}))
	req.False(msg.DefineProperty("locked", sport))
	req.False(msg.DeleteProperty("locked"))

	// Non-configurable but writable accepts a new value only
	req.True(msg.DefineProperty("counter", PropertyDescriptor{Value: 1, Writable: true}))
	req.True(msg.DefineProperty("counter", PropertyDescriptor{Value: 2, Writable: true}))
	req.False(msg.DefineProperty("counter", PropertyDescriptor{Value: 3, Writable: true, Enumerable: true}))
	value, _ := msg.Get("counter")
	req.Equal(2, value)

	// Configurable properties are replaced entirely
	req.True(msg.DefineProperty("category", sport))
	req.True(msg.DefineProperty("category", PropertyDescriptor{Value: "Music"}))
	desc, _ := msg.GetOwnPropertyDescriptor("category")
	req.Equal(PropertyDescriptor{Value: "Music"}, desc)

	msg.PreventExtensions()
	req.False(msg.DefineProperty("late", sport))
}

func TestMessage_DeleteProperty_Builtins(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("t", "x")
	req.False(msg.DeleteProperty(KeyTitle))
	req.False(msg.DeleteProperty(KeyText))
	req.True(msg.DeleteProperty(KeyFullMessage))
	req.True(msg.DeleteProperty("absent"))
	req.True(msg.Has(KeyFullMessage))

	_, ok := msg.GetOwnPropertyDescriptor(KeyFullMessage)
	req.False(ok)
}

func TestMessage_Zero_Value_Is_Usable(t *testing.T) {
	req := require.New(t)
	var msg Message
	req.Equal(": ", msg.FullMessage())
	req.Equal([]string{KeyTitle, KeyText}, msg.OwnKeys())
	req.True(msg.DefineProperty("category", sport))
}

func TestMessage_DefineProperty_Locked_Uncomparable_Values(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("t", "x")
	tags := map[string]any{"a": 1}
	wrapped := struct{ V any }{V: []string{"a"}}

	req.True(msg.DefineProperty("tags", PropertyDescriptor{Value: tags}))
	req.True(msg.DefineProperty("wrapped", PropertyDescriptor{Value: wrapped}))
	req.True(msg.DefineProperty("count", PropertyDescriptor{Value: 1}))

	req.NotPanics(func() {
		req.False(msg.DefineProperty("tags", PropertyDescriptor{Value: tags}))
		req.False(msg.DefineProperty("wrapped", PropertyDescriptor{Value: wrapped}))
	})
	req.False(msg.DefineProperty("count", PropertyDescriptor{Value: int64(1)}))
	req.False(msg.DefineProperty("count", PropertyDescriptor{Value: nil}))
	req.True(msg.DefineProperty("count", PropertyDescriptor{Value: 1}))
}
