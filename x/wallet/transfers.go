package wallet

import (
	"math/big"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// BucketName is where we store the transfers
	BucketName = "transfer"
	// SequenceName is an auto-increment ID counter for transfers
	SequenceName = "id"
)

// Validate checks that the record is complete.
func (m *Transfer) Validate() error {
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := ValidateAmount(m.Amount.BigInt()); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := m.Proposer.Validate(); err != nil {
		return errors.Wrap(err, "proposer")
	}
	for i, a := range m.Approvals {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "approval %d", i)
		}
	}
	return nil
}

// HasApproved returns true if owner approval was recorded.
func (m *Transfer) HasApproved(owner custody.Address) bool {
	for _, a := range m.Approvals {
		if a.Equals(owner) {
			return true
		}
	}
	return false
}

// TransferStore keeps every transfer ever created, indexed by a sequential
// id. Records are never deleted.
type TransferStore struct {
	bucket orm.ModelBucket
	seq    orm.Sequence
}

// NewTransferStore returns a store using the default bucket.
func NewTransferStore() *TransferStore {
	return &TransferStore{
		bucket: orm.NewModelBucket(BucketName),
		seq:    orm.NewSequence(BucketName, SequenceName),
	}
}

// Create stores a new pending transfer without any approval and returns it.
// Identifiers start at 0 and are never reused.
func (s *TransferStore) Create(db custody.KVStore, destination custody.Address, amount *big.Int, proposer custody.Address) (*Transfer, error) {
	id, key, err := s.seq.Next(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire transfer id")
	}
	t := &Transfer{
		ID:          id,
		Destination: destination,
		Amount:      NewAmount(amount),
		Proposer:    proposer,
	}
	if err := s.bucket.Put(db, key, t); err != nil {
		return nil, errors.Wrap(err, "cannot save transfer")
	}
	return t, nil
}

// Get returns the transfer with given id or ErrNotFound.
func (s *TransferStore) Get(db custody.ReadOnlyKVStore, id uint64) (*Transfer, error) {
	var t Transfer
	if err := s.bucket.One(db, orm.EncodeSequence(id), &t); err != nil {
		return nil, errors.Wrapf(err, "transfer %d", id)
	}
	return &t, nil
}

// RecordApproval adds the owner to the approvals of a pending transfer.
func (s *TransferStore) RecordApproval(db custody.KVStore, id uint64, owner custody.Address) (*Transfer, error) {
	t, err := s.Get(db, id)
	if err != nil {
		return nil, err
	}
	if t.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "transfer %d", id)
	}
	if t.HasApproved(owner) {
		return nil, errors.Wrapf(ErrAlreadyApproved, "transfer %d by %s", id, owner)
	}
	t.Approvals = append(t.Approvals, owner)
	if err := s.bucket.Put(db, orm.EncodeSequence(id), t); err != nil {
		return nil, errors.Wrap(err, "cannot save transfer")
	}
	return t, nil
}

// MarkExecuted flags the transfer as executed. This can happen only once.
func (s *TransferStore) MarkExecuted(db custody.KVStore, id uint64) (*Transfer, error) {
	t, err := s.Get(db, id)
	if err != nil {
		return nil, err
	}
	if t.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "transfer %d", id)
	}
	t.Executed = true
	if err := s.bucket.Put(db, orm.EncodeSequence(id), t); err != nil {
		return nil, errors.Wrap(err, "cannot save transfer")
	}
	return t, nil
}

// Count returns the number of transfers ever created.
func (s *TransferStore) Count(db custody.ReadOnlyKVStore) (uint64, error) {
	return s.seq.Count(db)
}

// List returns transfers in id order. When pendingOnly is set, executed
// transfers are skipped.
func (s *TransferStore) List(db custody.ReadOnlyKVStore, pendingOnly bool) ([]*Transfer, error) {
	it, err := s.bucket.Iterate(db)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Transfer
	for {
		var t Transfer
		switch _, err := it.LoadNext(&t); {
		case orm.ErrIteratorDone.Is(err):
			return res, nil
		case err != nil:
			return nil, errors.Wrap(err, "cannot load transfer")
		}
		if pendingOnly && t.Executed {
			continue
		}
		res = append(res, &t)
	}
}
