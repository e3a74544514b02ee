package ledger

import "github.com/ssargent/modelmarket/pkg/identity"

// Well-known identities.
var (
	// SystemProgramID owns plain wallet accounts.
	SystemProgramID = identity.MustParse("11111111111111111111111111111111")
	// RentSysvarID is the key of the synthetic account carrying Rent.
	RentSysvarID = identity.MustParse("SysvarRent111111111111111111111111111111111")
	// SysvarOwnerID owns every sysvar account.
	SysvarOwnerID = identity.MustParse("Sysvar1111111111111111111111111111111111111")
)
