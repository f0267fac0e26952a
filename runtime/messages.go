package runtime

import (
	"fmt"
	"math"
	"message-lab/domain"
	"message-lab/errors"
)

const (
	MethodHasTitleLongerThan = "hasTitleLongerThan"
	MethodFullMessage        = "fullMessage"
)

// NewMessageRegistry returns a registry knowing how to build a Message from
// (title, text) and how to call its behaviours by name.
func NewMessageRegistry() *Registry {
	r := NewRegistry()
	mustRegister(r.RegisterConstructor(domain.MessageTypeName, newMessage))
	mustRegister(r.RegisterMethod(domain.MessageTypeName, MethodHasTitleLongerThan, hasTitleLongerThan))
	mustRegister(r.RegisterMethod(domain.MessageTypeName, MethodFullMessage, fullMessage))
	return r
}

// mustRegister panics on a start-up registration failure, such as two
// behaviours registered under the same name.
func mustRegister(err error) {
	if err != nil {
		panic(fmt.Sprintf("message registry: %v", err))
	}
}

func newMessage(args ...any) (any, error) {
	if err := arity(domain.MessageTypeName, args, 2); err != nil {
		return nil, err
	}
	title, err := asString(args[0])
	if err != nil {
		return nil, err
	}
	text, err := asString(args[1])
	if err != nil {
		return nil, err
	}
	return domain.NewMessage(title, text), nil
}

func hasTitleLongerThan(target any, args ...any) (any, error) {
	msg, err := asMessage(target)
	if err != nil {
		return nil, err
	}
	if err = arity(MethodHasTitleLongerThan, args, 1); err != nil {
		return nil, err
	}
	length, err := asInt(args[0])
	if err != nil {
		return nil, err
	}
	return msg.HasTitleLongerThan(length)
}

func fullMessage(target any, args ...any) (any, error) {
	msg, err := asMessage(target)
	if err != nil {
		return nil, err
	}
	if err = arity(MethodFullMessage, args, 0); err != nil {
		return nil, err
	}
	return msg.FullMessage(), nil
}

func arity(name string, args []any, expected int) error {
	if len(args) != expected {
		return fmt.Errorf("%w: %s expects %d, got %d", errors.ErrArity, name, expected, len(args))
	}
	return nil
}

func asMessage(target any) (*domain.Message, error) {
	msg, ok := target.(*domain.Message)
	if !ok || msg == nil {
		return nil, fmt.Errorf("%w: expected a *domain.Message, got %T", errors.ErrInvalidArgument, target)
	}
	return msg, nil
}

func asString(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected a string, got %T", errors.ErrInvalidArgument, value)
	}
	return s, nil
}

// asInt accepts Go integers and integral floats, as decoded from JSON or structpb.
// Values outside the int range are clamped to math.MinInt or math.MaxInt,
// which keeps their sign.
func asInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return clampInt64(v), nil
	case uint:
		return clampUint64(uint64(v)), nil
	case uint32:
		return clampUint64(uint64(v)), nil
	case uint64:
		return clampUint64(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %v is not an integer", errors.ErrInvalidArgument, v)
		}
		switch {
		case v >= math.MaxInt:
			return math.MaxInt, nil
		case v <= math.MinInt:
			return math.MinInt, nil
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: expected an integer, got %T", errors.ErrInvalidArgument, value)
	}
}

func clampInt64(v int64) int {
	switch {
	case v > math.MaxInt:
		return math.MaxInt
	case v < math.MinInt:
		return math.MinInt
	}
	return int(v)
}

func clampUint64(v uint64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}
