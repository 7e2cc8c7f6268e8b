package orm

import (
	"github.com/iov-one/custody/errors"
)

// Orm reserves 100~109 error codes

// ErrIteratorDone is returned when there are no more elements to iterate.
var ErrIteratorDone = errors.Register(100, "iterator done")
