// Package market binds the listing program to a host.
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/ssargent/modelmarket/pkg/codec"
	"github.com/ssargent/modelmarket/pkg/host"
	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/ledger"
	"github.com/ssargent/modelmarket/pkg/logger"
	"github.com/ssargent/modelmarket/pkg/program"
	"github.com/ssargent/modelmarket/pkg/storage"
)

// OperationCreateListing labels create_listing invocations in the journal.
const OperationCreateListing = "create_listing"

// ErrNotInitialized is returned by Inspect for listing accounts that have
// been allocated but never written.
var ErrNotInitialized = errors.New("listing account is not initialized")

// Request carries the arguments of a create_listing invocation.
type Request struct {
	Listing     identity.Identity `json:"listing"`
	Payer       identity.Identity `json:"payer"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       uint64            `json:"price"`
	File        []byte            `json:"file,omitempty"`
}

// Result describes a committed listing.
type Result struct {
	Listing   *codec.Listing `json:"listing"`
	Address   string         `json:"address"`
	JournalID string         `json:"journal_id"`
}

// Service runs listing operations for one program id.
type Service struct {
	host      *host.Host
	programID identity.Identity
	log       *logrus.Entry
}

// NewService creates a market service.
func NewService(h *host.Host, programID identity.Identity) *Service {
	return &Service{
		host:      h,
		programID: programID,
		log:       logger.NewSublogger("market"),
	}
}

// ProgramID returns the program id listing accounts must be owned by.
func (s *Service) ProgramID() identity.Identity {
	return s.programID
}

// Host returns the host the service invokes against.
func (s *Service) Host() *host.Host {
	return s.host
}

// AllocateListing creates an empty listing account owned by the program and
// funded to the rent-exempt minimum for a listing record.
func (s *Service) AllocateListing(ctx context.Context) (*ledger.Account, error) {
	minimum := s.host.Rent().MinimumBalance(codec.RecordSize)
	account, err := s.host.CreateAccount(ctx, s.programID, codec.RecordSize, minimum)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate listing account: %w", err)
	}
	return account, nil
}

// CreateListing runs create_listing with the listing and payer accounts
// writable and the rent sysvar read-only.
func (s *Service) CreateListing(ctx context.Context, req Request) (*Result, error) {
	metas := []host.AccountMeta{
		host.Writable(req.Listing),
		host.Writable(req.Payer),
		host.ReadOnly(ledger.RentSysvarID),
	}

	entry, err := s.host.Invoke(ctx, OperationCreateListing, metas, func(slots []*ledger.Slot) error {
		programSlots := make([]program.Slot, len(slots))
		for i, slot := range slots {
			programSlots[i] = slot
		}
		return program.CreateListing(s.programID, programSlots, req.Name, req.Description, req.Price, req.File)
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"listing": req.Listing.String(),
			"code":    program.CodeOf(err),
		}).WithError(err).Debug("create_listing rejected")
		return nil, err
	}

	listing, err := s.Inspect(ctx, req.Listing)
	if err != nil {
		return nil, err
	}
	return &Result{Listing: listing, Address: req.Listing.String(), JournalID: entry.ID}, nil
}

// Inspect decodes the listing stored under key.
func (s *Service) Inspect(ctx context.Context, key identity.Identity) (*codec.Listing, error) {
	account, err := s.host.Account(ctx, key)
	if err != nil {
		return nil, err
	}
	if account.Owner != s.programID {
		return nil, program.ErrWrongOwnerProgram
	}
	if len(account.Data) != codec.RecordSize {
		return nil, program.ErrBadStorageSize
	}
	if !codec.IsInitialized(account.Data) {
		return nil, ErrNotInitialized
	}
	return program.ReadListing(account.Data)
}

// Journal returns up to limit journal entries, newest first.
func (s *Service) Journal(ctx context.Context, limit int) ([]storage.JournalEntry, error) {
	return s.host.Journal(ctx, limit)
}
