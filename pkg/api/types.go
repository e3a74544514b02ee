package api

import (
	"github.com/ssargent/modelmarket/pkg/codec"
	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/ledger"
	"github.com/ssargent/modelmarket/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
}

// CreateAccountRequest creates an account. With Listing set, Owner, Space
// and Lamports are ignored and an empty rent-exempt listing account owned
// by the program is allocated.
type CreateAccountRequest struct {
	Owner    *identity.Identity `json:"owner,omitempty"`
	Space    int                `json:"space"`
	Lamports uint64             `json:"lamports"`
	Listing  bool               `json:"listing,omitempty"`
}

// AirdropRequest credits an account
type AirdropRequest struct {
	Lamports uint64 `json:"lamports"`
}

// AirdropResponse reports the balance after an airdrop
type AirdropResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

// AccountResponse describes a stored account
type AccountResponse struct {
	Address  string `json:"address"`
	Owner    string `json:"owner"`
	Lamports uint64 `json:"lamports"`
	Space    int    `json:"space"`
	Data     []byte `json:"data,omitempty"`
}

// CreateListingRequest carries create_listing arguments
type CreateListingRequest struct {
	Listing     identity.Identity `json:"listing"`
	Payer       identity.Identity `json:"payer"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       uint64            `json:"price"`
	File        []byte            `json:"file,omitempty"`
}

// ListingResponse describes a decoded listing
type ListingResponse struct {
	Address     string `json:"address"`
	Initialized bool   `json:"initialized"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Price       uint64 `json:"price"`
	File        []byte `json:"file,omitempty"`
	JournalID   string `json:"journal_id,omitempty"`
}

// JournalResponse lists journal entries, newest first
type JournalResponse struct {
	Entries []storage.JournalEntry `json:"entries"`
}

func newAccountResponse(a *ledger.Account, withData bool) AccountResponse {
	resp := AccountResponse{
		Address:  a.Key.String(),
		Owner:    a.Owner.String(),
		Lamports: a.Lamports,
		Space:    len(a.Data),
	}
	if withData {
		resp.Data = a.Data
	}
	return resp
}

func newListingResponse(address identity.Identity, l *codec.Listing) ListingResponse {
	return ListingResponse{
		Address:     address.String(),
		Initialized: l.Initialized,
		Name:        l.Name,
		Description: l.Description,
		Owner:       l.Owner.String(),
		Price:       l.Price,
		File:        trimPadding(l.File),
	}
}

// trimPadding drops the zero padding the fixed layout adds after the file
// payload.
func trimPadding(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
