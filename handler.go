package custody

import (
	"encoding/json"
)

// Msg is an action requested by a caller. Each message type is routed to
// the Handler registered for its path.
type Msg interface {
	Persistent
	Validater

	// Path returns the path that routes the message to its handler.
	Path() string
}

// Handler is a core engine that can process a few specific messages
// This could represent "create transfer", or "approve transfer"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a message.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, msg Msg) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a message.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, msg Msg) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like logging, or savepoints, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, msg Msg, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, msg Msg, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	// Handle assigns given handler to handle processing of every message
	// of provided type.
	// Each message is routed by its path, so a message type
	// must declare a unique path.
	Handle(Msg, Handler)
}

// CheckResult captures any non-error information
// we want to return from a successful check.
type CheckResult struct {
	// Log is human-readable informational string
	Log string
}

// DeliverResult captures any non-error information
// we want to return from a successful delivery.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the id of
	// a newly created transfer.
	Data []byte
	// Log is human-readable informational string
	Log string
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
