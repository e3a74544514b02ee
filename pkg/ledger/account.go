package ledger

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/ssargent/modelmarket/pkg/identity"
)

// accountHeaderSize is CRC32(4) + Owner(32) + Lamports(8) + DataLen(4).
const accountHeaderSize = 4 + identity.Size + 8 + 4

// MaxAccountData bounds the data length of a single account.
const MaxAccountData = 10 * 1024 * 1024

// Errors
var (
	ErrCorruptAccount  = &LedgerError{"corrupt account record"}
	ErrAccountTooLarge = &LedgerError{"account data too large"}
	ErrSlotReleased    = &LedgerError{"slot used after its lease was released"}
	ErrReadOnlySlot    = &LedgerError{"slot is read-only"}
)

// LedgerError represents a ledger error
type LedgerError struct {
	Message string
}

func (e *LedgerError) Error() string {
	return e.Message
}

// Account is a unit of host-managed storage: a controlling program, a
// balance and a byte buffer.
type Account struct {
	Key      identity.Identity `json:"key"`
	Owner    identity.Identity `json:"owner"`
	Lamports uint64            `json:"lamports"`
	Data     []byte            `json:"data"`
}

// Clone returns a deep copy of the account
func (a *Account) Clone() *Account {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return &Account{
		Key:      a.Key,
		Owner:    a.Owner,
		Lamports: a.Lamports,
		Data:     data,
	}
}

// EncodeAccount serializes an account for persistence.
// Format: [CRC32(4)][Owner(32)][Lamports(8)][DataLen(4)][Data]
// The key is not part of the record; it is the storage key.
func EncodeAccount(a *Account) ([]byte, error) {
	if len(a.Data) > MaxAccountData {
		return nil, fmt.Errorf("%w: %d bytes", ErrAccountTooLarge, len(a.Data))
	}

	buf := make([]byte, accountHeaderSize+len(a.Data))
	copy(buf[4:], a.Owner[:])
	binary.LittleEndian.PutUint64(buf[36:], a.Lamports)
	binary.LittleEndian.PutUint32(buf[44:], uint32(len(a.Data)))
	copy(buf[accountHeaderSize:], a.Data)

	binary.LittleEndian.PutUint32(buf[0:], crc32.ChecksumIEEE(buf[4:]))
	return buf, nil
}

// DecodeAccount deserializes an account stored under key and validates its
// checksum.
func DecodeAccount(key identity.Identity, raw []byte) (*Account, error) {
	if len(raw) < accountHeaderSize {
		return nil, fmt.Errorf("%w: data too short for header", ErrCorruptAccount)
	}

	stored := binary.LittleEndian.Uint32(raw[0:4])
	if actual := crc32.ChecksumIEEE(raw[4:]); stored != actual {
		return nil, fmt.Errorf("%w: CRC32 mismatch: %d != %d", ErrCorruptAccount, stored, actual)
	}

	dataLen := binary.LittleEndian.Uint32(raw[44:48])
	if uint64(len(raw)) != uint64(accountHeaderSize)+uint64(dataLen) {
		return nil, fmt.Errorf("%w: data length %d does not match record size %d", ErrCorruptAccount, dataLen, len(raw))
	}

	owner, err := identity.FromBytes(raw[4:36])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptAccount, err)
	}

	data := make([]byte, dataLen)
	copy(data, raw[accountHeaderSize:])

	return &Account{
		Key:      key,
		Owner:    owner,
		Lamports: binary.LittleEndian.Uint64(raw[36:44]),
		Data:     data,
	}, nil
}
