package ledger

import (
	"github.com/ssargent/modelmarket/pkg/identity"
)

// Lease grants exclusive, time-bounded access to a set of working copies of
// accounts. The host creates one lease per invocation and releases it when
// the invocation returns; every Slot of a released lease panics on use.
type Lease struct {
	slots    []*Slot
	released bool
}

// Slot is the view of one leased account.
type Slot struct {
	lease    *Lease
	account  *Account
	writable bool
}

// NewLease wraps accounts in slots. writable[i] marks whether accounts[i] may
// be modified; a missing entry means read-only.
func NewLease(accounts []*Account, writable []bool) *Lease {
	l := &Lease{slots: make([]*Slot, len(accounts))}
	for i, a := range accounts {
		l.slots[i] = &Slot{
			lease:    l,
			account:  a,
			writable: i < len(writable) && writable[i],
		}
	}
	return l
}

// Slots returns the slots in the order the accounts were supplied.
func (l *Lease) Slots() []*Slot {
	out := make([]*Slot, len(l.slots))
	copy(out, l.slots)
	return out
}

// Release revokes access to every slot of the lease. It is safe to call more
// than once.
func (l *Lease) Release() {
	l.released = true
}

// Released reports whether Release was called.
func (l *Lease) Released() bool {
	return l.released
}

// Writable returns the working copies backing writable slots.
func (l *Lease) Writable() []*Account {
	var out []*Account
	for _, s := range l.slots {
		if s.writable {
			out = append(out, s.account)
		}
	}
	return out
}

func (s *Slot) live() *Account {
	if s.lease.released {
		panic(ErrSlotReleased)
	}
	return s.account
}

// Key returns the slot's identity.
func (s *Slot) Key() identity.Identity {
	return s.live().Key
}

// Owner returns the identity of the program that controls the slot.
func (s *Slot) Owner() identity.Identity {
	return s.live().Owner
}

// Len returns the length of the slot's storage.
func (s *Slot) Len() int {
	return len(s.live().Data)
}

// Data returns the slot's storage. Writes through the returned slice are
// only persisted for writable slots.
func (s *Slot) Data() []byte {
	return s.live().Data
}

// Lamports returns the slot's balance.
func (s *Slot) Lamports() uint64 {
	return s.live().Lamports
}

// Writable reports whether the slot may be modified.
func (s *Slot) Writable() bool {
	s.live()
	return s.writable
}

// SetLamports replaces the slot's balance.
func (s *Slot) SetLamports(lamports uint64) error {
	a := s.live()
	if !s.writable {
		return ErrReadOnlySlot
	}
	a.Lamports = lamports
	return nil
}
