package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/store"
)

func assertGetHas(t testing.TB, kv store.ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// TestCacheGetSet does basic sanity checks on our cache
func TestCacheGetSet(t *testing.T) {
	commit := NewMemCommitStore()
	base := commit.Adapter()

	k, v := []byte("french"), []byte("fry")
	assertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	assertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	assertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	assert.Nil(t, cache.Set(k2, v2))
	assertGetHas(t, cache, k2, v2, true)
	assertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	assertGetHas(t, base, k2, v2, true)

	// discarded cache leaves no trace
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	assert.Nil(t, c2.Set(k3, v3))
	c2.Discard()
	assertGetHas(t, base, k3, nil, false)
}

func TestCommitVisibility(t *testing.T) {
	commit := NewMemCommitStore()

	k, v := []byte("balance"), []byte{1, 2, 3}
	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set(k, v))
	assert.Nil(t, cache.Write())

	// not committed yet
	got, err := commit.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, got)

	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("commit must produce a state hash")
	}

	got, err = commit.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)

	latest, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id, latest)
}

func TestRollback(t *testing.T) {
	commit := NewMemCommitStore()
	base := commit.Adapter()

	// nothing saved yet, rollback empties the tree
	assert.Nil(t, base.Set([]byte("early"), []byte("1")))
	commit.Rollback()
	assertGetHas(t, base, []byte("early"), nil, false)

	assert.Nil(t, base.Set([]byte("kept"), []byte("2")))
	_, err := commit.Commit()
	assert.Nil(t, err)

	assert.Nil(t, base.Set([]byte("dropped"), []byte("3")))
	assert.Nil(t, base.Delete([]byte("kept")))
	commit.Rollback()
	assertGetHas(t, base, []byte("dropped"), nil, false)
	assertGetHas(t, base, []byte("kept"), []byte("2"), true)

	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id.Version)
	got, err := commit.Get([]byte("dropped"))
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir, err := ioutil.TempDir("", "iavl-adapter-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	commit, err := NewCommitStore(dir, "base")
	assert.Nil(t, err)
	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("a"), []byte("1")))
	assert.Nil(t, cache.Set([]byte("b"), []byte("2")))
	assert.Nil(t, cache.Write())
	want, err := commit.Commit()
	assert.Nil(t, err)
	commit.Close()

	reopened, err := NewCommitStore(dir, "base")
	assert.Nil(t, err)
	defer reopened.Close()
	assert.Nil(t, reopened.LoadLatestVersion())
	got, err := reopened.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, want, got)

	it, err := reopened.Adapter().Iterator(nil, nil)
	assert.Nil(t, err)
	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Close()
	assert.Equal(t, []string{"a", "b"}, keys)
}
