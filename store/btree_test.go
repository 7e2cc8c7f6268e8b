package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t *testing.T, kv ReadOnlyKVStore, key []byte) []byte {
	t.Helper()
	val, err := kv.Get(key)
	require.NoError(t, err)
	return val
}

func mustHas(t *testing.T, kv ReadOnlyKVStore, key []byte) bool {
	t.Helper()
	ok, err := kv.Has(key)
	require.NoError(t, err)
	return ok
}

// TestBTreeCacheGetSet does basic sanity checks on our cache
//
// Other tests should handle deletes, setting same value,
// iterating over ranges
func TestBTreeCacheGetSet(t *testing.T) {
	// base is the root of our data, we can layer on top and
	// all queries should work
	base := MemStore()

	// make sure the btree is empty at start but returns results
	// that are writen to it
	k, v := []byte("french"), []byte("fry")
	assert.Nil(t, mustGet(t, base, k))
	assert.False(t, mustHas(t, base, k))
	require.NoError(t, base.Set(k, v))
	assert.Equal(t, v, mustGet(t, base, k))
	assert.True(t, mustHas(t, base, k))

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assert.Equal(t, v, mustGet(t, cache, k))

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	assert.Equal(t, v2, mustGet(t, cache, k2))
	assert.Nil(t, mustGet(t, base, k2))
	assert.False(t, mustHas(t, base, k2))

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assert.Equal(t, v, mustGet(t, base, k))
	assert.Equal(t, v2, mustGet(t, base, k2))

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	assert.Nil(t, mustGet(t, base, k3))

	// and commit another
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	assert.False(t, mustHas(t, c3, k))
	require.NoError(t, c3.Write())

	// make sure it commits proper
	assert.Nil(t, mustGet(t, base, k))
	assert.Equal(t, v2, mustGet(t, base, k2))
	assert.Nil(t, mustGet(t, base, k3))
}

func collect(t *testing.T, it Iterator) []Model {
	t.Helper()
	defer it.Close()
	var res []Model
	for ; it.Valid(); it.Next() {
		res = append(res, Pair(it.Key(), it.Value()))
	}
	return res
}

func TestBTreeCacheIterator(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Set([]byte("cc"), []byte("cache-cc")))
	require.NoError(t, cache.Delete([]byte("e")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full range ascending": {
			want: []Model{
				Pair([]byte("a"), []byte("base-a")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("cc"), []byte("cache-cc")),
				Pair([]byte("d"), []byte("base-d")),
			},
		},
		"full range descending": {
			reverse: true,
			want: []Model{
				Pair([]byte("d"), []byte("base-d")),
				Pair([]byte("cc"), []byte("cache-cc")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("a"), []byte("base-a")),
			},
		},
		"bounded range": {
			start: []byte("b"),
			end:   []byte("d"),
			want: []Model{
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("cc"), []byte("cache-cc")),
			},
		},
		"open end": {
			start: []byte("cc"),
			want: []Model{
				Pair([]byte("cc"), []byte("cache-cc")),
				Pair([]byte("d"), []byte("base-d")),
			},
		},
		"empty range": {
			start: []byte("x"),
			end:   []byte("z"),
			want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, collect(t, it))
		})
	}
}

func TestNonAtomicBatch(t *testing.T) {
	base := MemStore()
	batch := base.NewBatch()
	require.NoError(t, batch.Set([]byte("k"), []byte("v")))
	require.NoError(t, batch.Set([]byte("gone"), []byte("v")))
	require.NoError(t, batch.Delete([]byte("gone")))

	// nothing is visible before the write
	assert.False(t, mustHas(t, base, []byte("k")))

	require.NoError(t, batch.Write())
	assert.Equal(t, []byte("v"), mustGet(t, base, []byte("k")))
	assert.False(t, mustHas(t, base, []byte("gone")))
}
