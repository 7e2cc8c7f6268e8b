package orm

import (
	"github.com/iov-one/custody"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	custody.Persistent
	Validate() error
}

// ModelIterator walks over the models of a bucket in ascending key order.
type ModelIterator interface {
	// LoadNext loads the current model into the given destination and
	// advances the iterator. It returns the key the model is stored
	// under. ErrIteratorDone is returned once all models were consumed.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the Iterator.
	Release()
}
