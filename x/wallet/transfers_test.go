package wallet

import (
	"math/big"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestTransferStoreLifecycle(t *testing.T) {
	db := store.MemStore()
	s := NewTransferStore()
	owners := custodytest.Owners(3)
	dest := custodytest.RandomAddr(t)

	for want := uint64(0); want < 3; want++ {
		tr, err := s.Create(db, dest, big.NewInt(int64(want+1)), owners[0])
		assert.Nil(t, err)
		assert.Equal(t, want, tr.ID)
		assert.Equal(t, 0, len(tr.Approvals))
		assert.Equal(t, false, tr.Executed)
	}
	count, err := s.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), count)

	tr, err := s.Get(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), tr.Amount.BigInt().Int64())
	assert.Equal(t, dest, tr.Destination)
	assert.Equal(t, owners[0], tr.Proposer)

	_, err = s.Get(db, 3)
	assert.IsErr(t, errors.ErrNotFound, err)

	tr, err = s.RecordApproval(db, 1, owners[0])
	assert.Nil(t, err)
	tr, err = s.RecordApproval(db, 1, owners[2])
	assert.Nil(t, err)
	assert.Equal(t, 2, len(tr.Approvals))
	assert.Equal(t, true, tr.HasApproved(owners[2]))
	assert.Equal(t, false, tr.HasApproved(owners[1]))

	_, err = s.RecordApproval(db, 1, owners[2])
	assert.IsErr(t, ErrAlreadyApproved, err)

	_, err = s.RecordApproval(db, 9, owners[2])
	assert.IsErr(t, errors.ErrNotFound, err)

	tr, err = s.MarkExecuted(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, true, tr.Executed)

	_, err = s.MarkExecuted(db, 1)
	assert.IsErr(t, ErrAlreadyExecuted, err)
	_, err = s.RecordApproval(db, 1, owners[1])
	assert.IsErr(t, ErrAlreadyExecuted, err)

	// A stored record reflects every change.
	tr, err = s.Get(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, true, tr.Executed)
	assert.Equal(t, 2, len(tr.Approvals))
}

func TestTransferStoreList(t *testing.T) {
	db := store.MemStore()
	s := NewTransferStore()
	owner := custodytest.Owners(1)[0]

	// More than 256 records to ensure the listing follows numeric order
	// and not the order of the least significant key byte.
	const total = 300
	for i := 0; i < total; i++ {
		_, err := s.Create(db, custodytest.RandomAddr(t), big.NewInt(1), owner)
		assert.Nil(t, err)
	}
	for _, id := range []uint64{0, 5, 299} {
		_, err := s.MarkExecuted(db, id)
		assert.Nil(t, err)
	}

	all, err := s.List(db, false)
	assert.Nil(t, err)
	assert.Equal(t, total, len(all))
	for i, tr := range all {
		if tr.ID != uint64(i) {
			t.Fatalf("position %d holds transfer %d", i, tr.ID)
		}
	}

	pending, err := s.List(db, true)
	assert.Nil(t, err)
	assert.Equal(t, total-3, len(pending))
	assert.Equal(t, uint64(1), pending[0].ID)
	assert.Equal(t, uint64(298), pending[len(pending)-1].ID)
	for _, tr := range pending {
		if tr.Executed {
			t.Fatalf("executed transfer %d listed as pending", tr.ID)
		}
	}
}

func TestTransferStoreRejectsInvalid(t *testing.T) {
	db := store.MemStore()
	s := NewTransferStore()
	owner := custodytest.Owners(1)[0]

	_, err := s.Create(db, nil, big.NewInt(1), owner)
	assert.IsErr(t, errors.ErrInput, err)

	// Failed creation consumed an id but no record was written.
	_, err = s.Get(db, 0)
	assert.IsErr(t, errors.ErrNotFound, err)
}
