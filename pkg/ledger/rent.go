package ledger

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
)

const (
	// AccountStorageOverhead is the per-account byte overhead charged on top
	// of the data length when computing rent.
	AccountStorageOverhead = 128

	// RentSysvarSize is the encoded size of Rent:
	// [LamportsPerByteYear(8)][ExemptionThreshold(8)][BurnPercent(1)]
	RentSysvarSize = 8 + 8 + 1
)

// Rent holds the parameters that decide when an account is exempt from rent
// collection.
type Rent struct {
	LamportsPerByteYear uint64  `yaml:"lamports_per_byte_year" json:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `yaml:"exemption_threshold" json:"exemption_threshold"`
	BurnPercent         uint8   `yaml:"burn_percent" json:"burn_percent"`
}

// DefaultRent returns the stock rent parameters
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionThreshold:  2.0,
		BurnPercent:         50,
	}
}

// Validate checks that the parameters are usable.
func (r Rent) Validate() error {
	if math.IsNaN(r.ExemptionThreshold) || math.IsInf(r.ExemptionThreshold, 0) || r.ExemptionThreshold < 0 {
		return fmt.Errorf("invalid exemption threshold %v", r.ExemptionThreshold)
	}
	if r.BurnPercent > 100 {
		return fmt.Errorf("invalid burn percent %d", r.BurnPercent)
	}
	if _, ok := r.minimumBalance(MaxAccountData); !ok {
		return fmt.Errorf("rent parameters overflow for %d-byte accounts", MaxAccountData)
	}
	return nil
}

// MinimumBalance returns the balance an account holding dataLen bytes needs
// to be rent exempt. Results that do not fit a uint64 saturate at
// math.MaxUint64.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	minimum, _ := r.minimumBalance(dataLen)
	return minimum
}

// 2^64 as a float64; products at or above it do not fit a uint64.
const maxUint64Float = float64(1 << 64)

func (r Rent) minimumBalance(dataLen int) (uint64, bool) {
	hi, perYear := bits.Mul64(uint64(AccountStorageOverhead+dataLen), r.LamportsPerByteYear)
	if hi != 0 {
		return math.MaxUint64, false
	}
	product := float64(perYear) * r.ExemptionThreshold
	if product >= maxUint64Float {
		return math.MaxUint64, false
	}
	return uint64(product), true
}

// IsExempt reports whether balance covers MinimumBalance(dataLen).
func (r Rent) IsExempt(balance uint64, dataLen int) bool {
	return balance >= r.MinimumBalance(dataLen)
}

// Encode returns the sysvar account data for r.
func (r Rent) Encode() []byte {
	buf := make([]byte, RentSysvarSize)
	binary.LittleEndian.PutUint64(buf[0:], r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(r.ExemptionThreshold))
	buf[16] = r.BurnPercent
	return buf
}

// DecodeRent parses rent sysvar account data.
func DecodeRent(data []byte) (Rent, error) {
	if len(data) < RentSysvarSize {
		return Rent{}, fmt.Errorf("rent sysvar data too short: %d < %d", len(data), RentSysvarSize)
	}
	r := Rent{
		LamportsPerByteYear: binary.LittleEndian.Uint64(data[0:8]),
		ExemptionThreshold:  math.Float64frombits(binary.LittleEndian.Uint64(data[8:16])),
		BurnPercent:         data[16],
	}
	if err := r.Validate(); err != nil {
		return Rent{}, err
	}
	return r, nil
}
