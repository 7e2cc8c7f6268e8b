package orm

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

// counter is a minimal model used to exercise the bucket.
type counter struct {
	Count uint64
}

func (c *counter) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, c.Count)
	return raw, nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrInput, "counter must be 8 bytes")
	}
	c.Count = binary.BigEndian.Uint64(raw)
	return nil
}

func (c *counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrEmpty, "count")
	}
	return nil
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("cnts")

	if err := b.Put(db, []byte("c1"), &counter{Count: 1}); err != nil {
		t.Fatalf("cannot save counter instance: %s", err)
	}

	var c1 counter
	if err := b.One(db, []byte("c1"), &c1); err != nil {
		t.Fatalf("cannot get c1 counter: %s", err)
	}
	if c1.Count != 1 {
		t.Fatalf("unexpected counter state: %d", c1.Count)
	}
	assert.Nil(t, b.Has(db, []byte("c1")))

	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatalf("cannot delete c1 counter: %s", err)
	}
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("c1")))
}

func TestModelBucketPutInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	assert.IsErr(t, errors.ErrEmpty, b.Put(db, []byte("c1"), &counter{}))
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, nil, &counter{Count: 3}))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("c1")))
}

func TestModelBucketIterate(t *testing.T) {
	db := store.MemStore()

	cnts := NewModelBucket("cnts")
	// Another bucket which name is a prefix must not leak into the result.
	other := NewModelBucket("cnt")
	assert.Nil(t, other.Put(db, []byte("zz"), &counter{Count: 99}))

	for i, k := range []string{"c3", "c1", "c2"} {
		assert.Nil(t, cnts.Put(db, []byte(k), &counter{Count: uint64(i + 1)}))
	}

	it, err := cnts.Iterate(db)
	assert.Nil(t, err)
	defer it.Release()

	var (
		keys   []string
		counts []uint64
	)
	for {
		var c counter
		key, err := it.LoadNext(&c)
		if ErrIteratorDone.Is(err) {
			break
		}
		assert.Nil(t, err)
		keys = append(keys, string(key))
		counts = append(counts, c.Count)
	}
	assert.Equal(t, []string{"c1", "c2", "c3"}, keys)
	assert.Equal(t, []uint64{2, 3, 1}, counts)
}

func TestIllegalBucketName(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("Bad-Name") })
	assert.Panics(t, func() { NewModelBucket("ab") })
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix    []byte
		wantStart []byte
		wantEnd   []byte
	}{
		"simple": {
			prefix:    []byte("abc"),
			wantStart: []byte("abc"),
			wantEnd:   []byte("abd"),
		},
		"trailing max byte": {
			prefix:    []byte{1, 0xff},
			wantStart: []byte{1, 0xff},
			wantEnd:   []byte{2},
		},
		"all max bytes": {
			prefix:    []byte{0xff, 0xff},
			wantStart: []byte{0xff, 0xff},
			wantEnd:   nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}
