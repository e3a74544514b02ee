package program

import (
	"fmt"
	"math/bits"

	"github.com/ssargent/modelmarket/pkg/codec"
	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/ledger"
)

// Slot is the host-supplied view of one account for one invocation.
type Slot interface {
	Key() identity.Identity
	Owner() identity.Identity
	Len() int
	Data() []byte
	Lamports() uint64
	Writable() bool
	SetLamports(lamports uint64) error
}

// RentOracle reports rent-exemption thresholds.
type RentOracle interface {
	MinimumBalance(dataLen int) uint64
	IsExempt(balance uint64, dataLen int) bool
}

// Positions of the slots CreateListing expects.
const (
	ListingSlot = iota
	PayerSlot
	RentSlot

	CreateListingSlots
)

// CreateListing initializes the listing slot with a new Listing owned by the
// payer and moves the rent-exempt minimum from the payer to the listing slot.
//
// slots must be [listing, payer, rent sysvar]. The checks run in this order
// and the first failure is returned:
//
//  1. the listing slot is owned by programID (ErrWrongOwnerProgram)
//  2. the listing slot holds exactly codec.RecordSize bytes (ErrBadStorageSize)
//  3. the listing slot is not initialized (ErrAlreadyInitialized)
//  4. the listing slot balance is rent exempt (ErrNotRentExempt)
//  5. the payer can cover the rent-exempt minimum (ErrInsufficientFunds)
//
// No slot is modified unless every check passes and the listing encodes.
func CreateListing(
	programID identity.Identity,
	slots []Slot,
	name, description string,
	price uint64,
	file []byte,
) error {
	if len(slots) < CreateListingSlots {
		return wrap(ErrNotEnoughAccountKeys, fmt.Errorf("got %d, want %d", len(slots), CreateListingSlots))
	}
	listingSlot, payer, rentSlot := slots[ListingSlot], slots[PayerSlot], slots[RentSlot]

	if listingSlot.Owner() != programID {
		return ErrWrongOwnerProgram
	}
	if listingSlot.Len() != codec.RecordSize {
		return wrap(ErrBadStorageSize, fmt.Errorf("got %d bytes, want %d", listingSlot.Len(), codec.RecordSize))
	}
	if codec.IsInitialized(listingSlot.Data()) {
		return ErrAlreadyInitialized
	}

	rent, err := RentFromSlot(rentSlot)
	if err != nil {
		return err
	}

	minimum := rent.MinimumBalance(listingSlot.Len())
	if !rent.IsExempt(listingSlot.Lamports(), listingSlot.Len()) {
		return ErrNotRentExempt
	}
	if payer.Lamports() < minimum {
		return ErrInsufficientFunds
	}

	if payer.Key() == listingSlot.Key() {
		return wrap(ErrInvalidArgument, fmt.Errorf("payer and listing are the same account"))
	}
	if !listingSlot.Writable() || !payer.Writable() {
		return wrap(ErrInvalidArgument, fmt.Errorf("listing and payer accounts must be writable"))
	}
	credited, carry := bits.Add64(listingSlot.Lamports(), minimum, 0)
	if carry != 0 {
		return ErrArithmeticOverflow
	}
	debited := payer.Lamports() - minimum

	listing := &codec.Listing{
		Initialized: true,
		Name:        name,
		Description: description,
		Owner:       payer.Key(),
		Price:       price,
		File:        file,
	}
	// EncodeInto validates every field before writing, so a rejected
	// listing leaves the slot untouched.
	if err := codec.EncodeInto(listingSlot.Data(), listing); err != nil {
		return wrap(ErrInvalidArgument, err)
	}

	if err := payer.SetLamports(debited); err != nil {
		return err
	}
	if err := listingSlot.SetLamports(credited); err != nil {
		return err
	}

	return nil
}

// RentFromSlot reads the rent parameters from the rent sysvar slot.
func RentFromSlot(s Slot) (ledger.Rent, error) {
	if s.Key() != ledger.RentSysvarID {
		return ledger.Rent{}, wrap(ErrInvalidRentSysvar, fmt.Errorf("unexpected key %s", s.Key()))
	}
	rent, err := ledger.DecodeRent(s.Data())
	if err != nil {
		return ledger.Rent{}, wrap(ErrInvalidRentSysvar, err)
	}
	return rent, nil
}

// ReadListing decodes the listing held by a slot.
func ReadListing(data []byte) (*codec.Listing, error) {
	listing, err := codec.Decode(data)
	if err != nil {
		return nil, wrap(ErrMalformedRecord, err)
	}
	return listing, nil
}
