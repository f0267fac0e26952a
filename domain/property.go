package domain

import (
	"fmt"
	"message-lab/errors"
	"reflect"
	"slices"
)

const (
	KeyTitle       = "title"
	KeyText        = "text"
	KeyFullMessage = "fullMessage"
)

// PropertyDescriptor describes a named property of a Message.
type PropertyDescriptor struct {
	Value        any
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// accessor binds a property name to typed code at compile time.
// A nil set means the property is read-only. Own properties are stored on
// the instance, the others are derived from it.
type accessor struct {
	get func(m *Message) any
	set func(m *Message, value any) error
	own bool
}

var accessors = map[string]accessor{
	KeyTitle: {
		get: func(m *Message) any { return m.Title },
		set: stringSetter(func(m *Message, s string) { m.Title = s }),
		own: true,
	},
	KeyText: {
		get: func(m *Message) any { return m.Text },
		set: stringSetter(func(m *Message, s string) { m.Text = s }),
		own: true,
	},
	KeyFullMessage: {
		get: func(m *Message) any { return m.FullMessage() },
	},
}

// builtinKeys keeps the own keys in field order.
var builtinKeys = []string{KeyTitle, KeyText}

func stringSetter(assign func(m *Message, s string)) func(m *Message, value any) error {
	return func(m *Message, value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: expected a string, got %T", errors.ErrInvalidArgument, value)
		}
		assign(m, s)
		return nil
	}
}

func builtinDescriptor(m *Message, key string) PropertyDescriptor {
	return PropertyDescriptor{
		Value:        accessors[key].get(m),
		Writable:     true,
		Enumerable:   true,
		Configurable: false,
	}
}

// Has reports whether key names an own, derived or defined property.
func (m *Message) Has(key string) bool {
	if _, ok := accessors[key]; ok {
		return true
	}
	_, ok := m.defined[key]
	return ok
}

// Get returns the current value behind key.
func (m *Message) Get(key string) (any, bool) {
	if a, ok := accessors[key]; ok {
		return a.get(m), true
	}
	if d, ok := m.defined[key]; ok {
		return d.Value, true
	}
	return nil, false
}

// Set assigns value to key. An unknown key is added as a writable,
// enumerable and configurable property unless extensions were prevented.
func (m *Message) Set(key string, value any) error {
	if a, ok := accessors[key]; ok {
		if a.set == nil {
			return fmt.Errorf("%w: %s", errors.ErrReadOnlyProperty, key)
		}
		return a.set(m, value)
	}
	if d, ok := m.defined[key]; ok {
		if !d.Writable {
			return fmt.Errorf("%w: %s", errors.ErrReadOnlyProperty, key)
		}
		d.Value = value
		return nil
	}
	if key == "" {
		return fmt.Errorf("%w: empty property name", errors.ErrInvalidArgument)
	}
	if m.sealed {
		return fmt.Errorf("%w: cannot add %s", errors.ErrNotExtensible, key)
	}
	m.add(key, PropertyDescriptor{Value: value, Writable: true, Enumerable: true, Configurable: true})
	return nil
}

// DefineProperty creates or redefines key and reports whether it succeeded.
// Built-in fields only accept a new string value with unchanged attributes,
// and derived properties cannot be redefined.
func (m *Message) DefineProperty(key string, desc PropertyDescriptor) bool {
	if key == "" {
		return false
	}
	if a, ok := accessors[key]; ok {
		if !a.own || !desc.Writable || !desc.Enumerable || desc.Configurable {
			return false
		}
		return a.set(m, desc.Value) == nil
	}
	if current, ok := m.defined[key]; ok {
		if current.Configurable {
			*current = desc
			return true
		}
		sameAttributes := desc.Writable == current.Writable &&
			desc.Enumerable == current.Enumerable &&
			!desc.Configurable
		if !sameAttributes {
			return false
		}
		if !current.Writable {
			return sameValue(desc.Value, current.Value)
		}
		current.Value = desc.Value
		return true
	}
	if m.sealed {
		return false
	}
	m.add(key, desc)
	return true
}

// DeleteProperty removes a configurable property. Deleting a key that is
// absent or not owned by the instance succeeds without effect.
func (m *Message) DeleteProperty(key string) bool {
	if a, ok := accessors[key]; ok {
		return !a.own
	}
	d, ok := m.defined[key]
	if !ok {
		return true
	}
	if !d.Configurable {
		return false
	}
	delete(m.defined, key)
	m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == key })
	return true
}

// OwnKeys lists the built-in fields followed by defined properties in
// definition order. Non-enumerable properties are included.
func (m *Message) OwnKeys() []string {
	keys := make([]string, 0, len(builtinKeys)+len(m.order))
	keys = append(keys, builtinKeys...)
	return append(keys, m.order...)
}

// GetOwnPropertyDescriptor returns the descriptor of an own property.
// Derived properties have none.
func (m *Message) GetOwnPropertyDescriptor(key string) (PropertyDescriptor, bool) {
	if a, ok := accessors[key]; ok {
		if !a.own {
			return PropertyDescriptor{}, false
		}
		return builtinDescriptor(m, key), true
	}
	d, ok := m.defined[key]
	if !ok {
		return PropertyDescriptor{}, false
	}
	return *d, true
}

// PreventExtensions forbids adding new properties. Existing ones stay mutable.
func (m *Message) PreventExtensions() {
	m.sealed = true
}

func (m *Message) IsExtensible() bool {
	return !m.sealed
}

func (m *Message) add(key string, desc PropertyDescriptor) {
	if m.defined == nil {
		m.defined = make(map[string]*PropertyDescriptor)
	}
	m.defined[key] = &desc
	m.order = append(m.order, key)
}

// sameValue compares values that may not be comparable (maps, slices).
// Value.Comparable also looks inside interface fields of structs and arrays.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
