package utils

import (
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ custody.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx custody.Context, store custody.KVStore, msg custody.Msg, next custody.Checker) (*custody.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, msg)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, msg, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx custody.Context, store custody.KVStore, msg custody.Msg, next custody.Deliverer) (*custody.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, msg)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, msg, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx custody.Context, start time.Time, msg custody.Msg, resLog string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := custody.GetLogger(ctx).With("duration", delta/time.Microsecond)
	if msg != nil {
		logger = logger.With("path", msg.Path())
	}
	if caller, ok := custody.GetCaller(ctx); ok {
		logger = logger.With("caller", caller.String())
	}

	// An empty message is still logged, the key values carry the
	// relevant information.

	if err != nil {
		logger.With("err", err, "code", errors.Code(err)).Error(resLog)
	} else if lowPrio {
		logger.Debug(resLog)
	} else {
		logger.Info(resLog)
	}
}
