package store

import (
	"bytes"

	"github.com/google/btree"
)

// rangeItems returns all btree items with a key in [start, end), ordered as
// requested. Nil start or end means an open range.
func rangeItems(bt *btree.BTree, start, end []byte, ascending bool) []btree.Item {
	var res []btree.Item
	add := func(item btree.Item) bool {
		res = append(res, item)
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, add)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, add)
	}

	if !ascending {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// cacheIter combines the items of a cache layer with the results of the
// parent iterator. Cached writes shadow the parent and cached deletes hide
// parent entries.
type cacheIter struct {
	items     []btree.Item
	idx       int
	parent    Iterator
	ascending bool

	valid bool
	key   []byte
	value []byte
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(items []btree.Item, parent Iterator, ascending bool) *cacheIter {
	it := &cacheIter{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	it.advance()
	return it
}

func (c *cacheIter) advance() {
	for {
		hasCache := c.idx < len(c.items)
		hasParent := c.parent.Valid()

		switch {
		case !hasCache && !hasParent:
			c.valid = false
			return
		case !hasCache:
			c.takeParent()
			return
		case !hasParent:
			if c.takeCache() {
				return
			}
			continue
		}

		cmp := bytes.Compare(c.items[c.idx].(entry).key, c.parent.Key())
		if !c.ascending {
			cmp = -cmp
		}
		switch {
		case cmp < 0:
			if c.takeCache() {
				return
			}
		case cmp == 0:
			// cached value overwrites the parent
			c.parent.Next()
			if c.takeCache() {
				return
			}
		default:
			c.takeParent()
			return
		}
	}
}

func (c *cacheIter) takeParent() {
	c.key, c.value, c.valid = c.parent.Key(), c.parent.Value(), true
	c.parent.Next()
}

// takeCache consumes one cached item. It returns false if the item is a
// deletion marker and nothing can be emitted.
func (c *cacheIter) takeCache() bool {
	e := c.items[c.idx].(entry)
	c.idx++
	if e.deleted {
		return false
	}
	c.key, c.value, c.valid = e.key, e.value, true
	return true
}

// Valid implements Iterator and returns true iff it can be read
func (c *cacheIter) Valid() bool {
	return c.valid
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (c *cacheIter) Next() {
	if !c.valid {
		panic("Passed end of iterator")
	}
	c.advance()
}

// Key returns the key of the cursor.
func (c *cacheIter) Key() []byte {
	if !c.valid {
		panic("Passed end of iterator")
	}
	return c.key
}

// Value returns the value of the cursor.
func (c *cacheIter) Value() []byte {
	if !c.valid {
		panic("Passed end of iterator")
	}
	return c.value
}

// Close releases the Iterator.
func (c *cacheIter) Close() {
	c.items = nil
	c.parent.Close()
}
