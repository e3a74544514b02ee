// Package identity defines the fixed-width account identity handle used
// throughout modelmarket.
package identity

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Size is the width in bytes of an encoded identity.
const Size = 32

// Identity identifies an account, a program or a listing owner.
type Identity [Size]byte

// Zero is the all-zero identity.
var Zero Identity

// ErrInvalidIdentity is returned when bytes or text do not form an identity.
var ErrInvalidIdentity = errors.New("invalid identity")

// New returns a random identity
func New() (Identity, error) {
	var id Identity
	if _, err := rand.Read(id[:]); err != nil {
		return Zero, fmt.Errorf("failed to generate identity: %w", err)
	}
	return id, nil
}

// FromBytes copies b into an Identity. b must be exactly Size bytes.
func FromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != Size {
		return Zero, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIdentity, len(b), Size)
	}
	copy(id[:], b)
	return id, nil
}

// Parse decodes the base58 text form of an identity.
func Parse(s string) (Identity, error) {
	if s == "" {
		return Zero, fmt.Errorf("%w: empty string", ErrInvalidIdentity)
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	return FromBytes(raw)
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Identity {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the base58 form.
func (id Identity) String() string {
	return base58.Encode(id[:])
}

// Bytes returns a copy of the identity bytes.
func (id Identity) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// IsZero reports whether id is the all-zero identity.
func (id Identity) IsZero() bool {
	return id == Zero
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
