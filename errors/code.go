package errors

// internalCode is reported for errors that do not wrap a registered one.
const internalCode uint32 = 1

type coder interface {
	Code() uint32
}

// Code returns the code of the registered error wrapped by err, 0 for a
// nil error and 1 for errors that wrap no registered error.
func Code(err error) uint32 {
	if errIsNil(err) {
		return 0
	}
	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		c, ok := err.(causer)
		if !ok {
			return internalCode
		}
		err = c.Cause()
	}
}
