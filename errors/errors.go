package errors

import "fmt"

var (
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrNonPositiveLength = fmt.Errorf("%w: Length value must have positive value", ErrInvalidArgument)

	ErrReadOnlyProperty = fmt.Errorf("property is read-only")
	ErrNotExtensible    = fmt.Errorf("object is not extensible")
	ErrUnknownProperty  = fmt.Errorf("unknown property")

	ErrUnknownConstructor = fmt.Errorf("unknown constructor")
	ErrUnknownMethod      = fmt.Errorf("unknown method")
	ErrArity              = fmt.Errorf("wrong number of arguments")
	ErrAlreadyRegistered  = fmt.Errorf("name already registered")

	ErrMessageNotFound = fmt.Errorf("message not found")
)
