package wallet

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// OwnerRegistry is the fixed set of owner identities. Each owner holds a
// unique bit position given by its index in the roster.
type OwnerRegistry struct {
	owners    []custody.Address
	positions map[string]int
}

// NewOwnerRegistry returns a registry of the given owners, in bit order.
func NewOwnerRegistry(owners []custody.Address) (*OwnerRegistry, error) {
	if len(owners) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "owners")
	}
	if len(owners) > MaxOwners {
		return nil, errors.Wrapf(errors.ErrOverflow, "%d owners", len(owners))
	}
	r := &OwnerRegistry{
		owners:    make([]custody.Address, len(owners)),
		positions: make(map[string]int, len(owners)),
	}
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			return nil, errors.Wrapf(err, "owner %d", i)
		}
		if _, ok := r.positions[string(o)]; ok {
			return nil, errors.Wrapf(errors.ErrDuplicate, "owner %s", o)
		}
		r.owners[i] = append(custody.Address(nil), o...)
		r.positions[string(o)] = i
	}
	return r, nil
}

// IsOwner returns true if the identity belongs to the roster.
func (r *OwnerRegistry) IsOwner(a custody.Address) bool {
	_, ok := r.positions[string(a)]
	return ok
}

// Position returns the bit position of an owner.
func (r *OwnerRegistry) Position(a custody.Address) (int, bool) {
	i, ok := r.positions[string(a)]
	return i, ok
}

// Owners returns 1 << i for every owner, in ascending bit position.
func (r *OwnerRegistry) Owners() []uint64 {
	res := make([]uint64, len(r.owners))
	for i := range r.owners {
		res[i] = 1 << uint(i)
	}
	return res
}

// Identities returns a copy of the roster in bit order.
func (r *OwnerRegistry) Identities() []custody.Address {
	res := make([]custody.Address, len(r.owners))
	for i, o := range r.owners {
		res[i] = append(custody.Address(nil), o...)
	}
	return res
}

// Len returns the number of owners.
func (r *OwnerRegistry) Len() int {
	return len(r.owners)
}
