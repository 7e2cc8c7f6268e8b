package store

// Model is a key value pair read from a store.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a model of the given key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// SliceIterator iterates over models that were already loaded.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator returns an iterator over data, in the given order.
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool {
	return s.idx < len(s.data)
}

// Next panics when called on an exhausted iterator.
func (s *SliceIterator) Next() {
	s.current()
	s.idx++
}

func (s *SliceIterator) Key() []byte {
	return s.current().Key
}

func (s *SliceIterator) Value() []byte {
	return s.current().Value
}

func (s *SliceIterator) Close() {
	s.data = nil
}

func (s *SliceIterator) current() Model {
	if !s.Valid() {
		panic("iterator exhausted")
	}
	return s.data[s.idx]
}

// EmptyKVStore holds nothing and ignores writes. MemStore caches on top of
// it.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }

func (EmptyKVStore) Has(key []byte) (bool, error) { return false, nil }

func (EmptyKVStore) Set(key, value []byte) error { return nil }

func (EmptyKVStore) Delete(key []byte) error { return nil }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// NonAtomicBatch records writes and replays them in order on Write. A
// failing write leaves the earlier ones applied, so it is only suitable
// for targets that are themselves discarded on error, such as a cache
// wrap or a working tree that can be rolled back.
type NonAtomicBatch struct {
	out     SetDeleter
	pending []entry
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.pending = append(b.pending, entry{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.pending = append(b.pending, entry{key: key, deleted: true})
	return nil
}

// Write replays all recorded writes and resets the batch.
func (b *NonAtomicBatch) Write() error {
	for _, e := range b.pending {
		var err error
		if e.deleted {
			err = b.out.Delete(e.key)
		} else {
			err = b.out.Set(e.key, e.value)
		}
		if err != nil {
			return err
		}
	}
	b.pending = nil
	return nil
}
