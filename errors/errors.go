package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all packages. Codes are stable and reported by the
// command line client.
var (
	// ErrUnauthorized means the caller may not perform the operation.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned for a message that is malformed or that no
	// handler accepts.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned for an entity that cannot be persisted.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique value is given twice.
	ErrDuplicate = Register(6, "duplicate")

	ErrEmpty = Register(9, "value is empty")

	// ErrState means the operation is not allowed in the current state,
	// for example before the vault is initialized.
	ErrState = Register(10, "invalid state")

	ErrType = Register(11, "invalid type")

	// ErrAmount is returned for amounts that are not positive integers.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput is returned for malformed user input such as flags, genesis
	// files or encoded addresses.
	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when a value does not fit in 256 bits.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(17, "database")

	// ErrPanic is set when a panic is recovered.
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error with a unique code. It panics if the code
// is taken, so call it only from package level variable declarations.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{code: code, desc: description}
	usedCodes[code] = err
	return err
}

// usedCodes maps every registered code to its error. Code 1 is reserved for
// errors that do not wrap a registered one.
var usedCodes = map[uint32]*Error{
	internalCode: nil,
}

// Error is a registered root error. Every error returned by this module
// wraps one of them, so callers can branch on the kind with Is and clients
// can report the code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the numeric code the error is registered with.
func (e Error) Code() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with a formatted description.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is returns true if err is kind or wraps it. A nil kind matches nil errors,
// including typed nil pointers.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return errIsNil(err)
	}
	for {
		if err == kind {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
}

// Wrap adds description to err. The innermost wrap records a stack trace,
// printed with the %+v verb. Wrapping a nil error returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType wraps err with the name of the type of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

type causer interface {
	Cause() error
}

// errIsNil returns true for nil and for typed nil pointers.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}
