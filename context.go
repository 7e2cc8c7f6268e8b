/*
We pass context through context.Context between the host,
middleware, and handlers. The host stores the authenticated
caller and a logger in the context; extensions read them back.

There should exist two functions for every XYZ of type T
that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set to avoid
lower-level modules overwriting the value (eg. caller).
*/

package custody

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain
type Context = context.Context

type contextKey int // local to the custody module

const (
	contextKeyCaller contextKey = iota
	contextKeyLogger
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// WithCaller sets the authenticated identity of the account issuing the
// call. The host is the only component allowed to set it.
func WithCaller(ctx Context, caller Address) Context {
	if ctx.Value(contextKeyCaller) != nil {
		panic("Caller already set")
	}
	return context.WithValue(ctx, contextKeyCaller, caller)
}

// GetCaller returns the authenticated caller or false if the call is
// anonymous.
func GetCaller(ctx Context) (Address, bool) {
	val, _ := ctx.Value(contextKeyCaller).(Address)
	if len(val) == 0 {
		return nil, false
	}
	return val, true
}

// WithLogger sets the logger for this context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
