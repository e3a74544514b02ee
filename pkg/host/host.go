// Package host runs state transitions against persisted accounts. It owns
// the account store and the rent sysvar, serializes invocations and commits
// each successful invocation atomically.
package host

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"path/filepath"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/ledger"
	"github.com/ssargent/modelmarket/pkg/logger"
	"github.com/ssargent/modelmarket/pkg/storage"
)

var (
	// ErrAccountNotFound is returned for keys with no stored account.
	ErrAccountNotFound = storage.ErrNotFound
	// ErrDuplicateAccount is returned when an invocation names a key twice.
	ErrDuplicateAccount = errors.New("account named more than once")
	// ErrReservedAccount is returned when a sysvar is named as writable or
	// used as an airdrop target.
	ErrReservedAccount = errors.New("account is reserved by the host")
	// ErrInvalidSpace is returned for account sizes outside
	// [0, ledger.MaxAccountData].
	ErrInvalidSpace = errors.New("invalid account space")
	// ErrBalanceOverflow is returned when a credit would overflow a balance.
	ErrBalanceOverflow = errors.New("balance overflow")
)

// Store is the persistence the host needs.
type Store interface {
	GetAccount(key identity.Identity) (*ledger.Account, error)
	HasAccount(key identity.Identity) (bool, error)
	Commit(accounts []*ledger.Account, entry *storage.JournalEntry) (ksuid.KSUID, error)
	Journal(limit int) ([]storage.JournalEntry, error)
	Close() error
}

// AccountMeta names an account passed to an invocation.
type AccountMeta struct {
	Key      identity.Identity
	Writable bool
}

// Writable and ReadOnly build AccountMeta values.
func Writable(key identity.Identity) AccountMeta { return AccountMeta{Key: key, Writable: true} }
func ReadOnly(key identity.Identity) AccountMeta { return AccountMeta{Key: key} }

// Func is a state transition run under a lease. The slots are in the order
// of the AccountMeta values passed to Invoke and are revoked when Func
// returns.
type Func func(slots []*ledger.Slot) error

// Host serializes state transitions over a Store.
type Host struct {
	store Store
	rent  ledger.Rent
	sem   chan struct{}
	log   *logrus.Entry
}

// New creates a host over store.
func New(store Store, rent ledger.Rent) (*Host, error) {
	if err := rent.Validate(); err != nil {
		return nil, err
	}
	return &Host{
		store: store,
		rent:  rent,
		sem:   make(chan struct{}, 1),
		log:   logger.NewSublogger("host"),
	}, nil
}

// Open creates a host backed by a pebble store under dataDir.
func Open(dataDir string, rent ledger.Rent) (*Host, error) {
	store, err := storage.NewDefaultStorage(filepath.Join(dataDir, "accounts"))
	if err != nil {
		return nil, err
	}
	h, err := New(store, rent)
	if err != nil {
		store.Close()
		return nil, err
	}
	return h, nil
}

// Close closes the underlying store.
func (h *Host) Close() error {
	return h.store.Close()
}

// Rent returns the rent parameters published through the rent sysvar.
func (h *Host) Rent() ledger.Rent {
	return h.rent
}

func (h *Host) acquire(ctx context.Context) error {
	select {
	case h.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Host) release() {
	<-h.sem
}

func (h *Host) rentAccount() *ledger.Account {
	return &ledger.Account{
		Key:   ledger.RentSysvarID,
		Owner: ledger.SysvarOwnerID,
		Data:  h.rent.Encode(),
	}
}

// Account returns a copy of the account stored under key. The rent sysvar is
// synthesized from the host's rent parameters.
func (h *Host) Account(ctx context.Context, key identity.Identity) (*ledger.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == ledger.RentSysvarID {
		return h.rentAccount(), nil
	}
	return h.store.GetAccount(key)
}

// CreateAccount creates an account with a fresh key, space zeroed bytes of
// storage and the given balance. The new account is returned.
func (h *Host) CreateAccount(ctx context.Context, owner identity.Identity, space int, lamports uint64) (*ledger.Account, error) {
	if space < 0 || space > ledger.MaxAccountData {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSpace, space)
	}
	if err := h.acquire(ctx); err != nil {
		return nil, err
	}
	defer h.release()

	key, err := identity.New()
	if err != nil {
		return nil, err
	}
	account := &ledger.Account{
		Key:      key,
		Owner:    owner,
		Lamports: lamports,
		Data:     make([]byte, space),
	}
	entry := &storage.JournalEntry{Operation: "create_account", Accounts: []string{key.String()}}
	if _, err := h.store.Commit([]*ledger.Account{account}, entry); err != nil {
		return nil, err
	}

	h.log.WithFields(logrus.Fields{
		"account":  key.String(),
		"owner":    owner.String(),
		"space":    space,
		"lamports": lamports,
	}).Info("Account created")
	return account.Clone(), nil
}

// Airdrop credits lamports to an existing account and returns the new
// balance.
func (h *Host) Airdrop(ctx context.Context, key identity.Identity, lamports uint64) (uint64, error) {
	if key == ledger.RentSysvarID {
		return 0, fmt.Errorf("%w: %s", ErrReservedAccount, key)
	}
	if err := h.acquire(ctx); err != nil {
		return 0, err
	}
	defer h.release()

	account, err := h.store.GetAccount(key)
	if err != nil {
		return 0, err
	}
	balance, carry := bits.Add64(account.Lamports, lamports, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %s", ErrBalanceOverflow, key)
	}
	account.Lamports = balance

	entry := &storage.JournalEntry{Operation: "airdrop", Accounts: []string{key.String()}}
	if _, err := h.store.Commit([]*ledger.Account{account}, entry); err != nil {
		return 0, err
	}

	h.log.WithFields(logrus.Fields{
		"account":  key.String(),
		"lamports": lamports,
		"balance":  balance,
	}).Info("Airdrop credited")
	return balance, nil
}

// Invoke runs fn over working copies of the named accounts. Invocations are
// serialized. When fn succeeds every writable account and a journal entry
// labelled label are committed in one batch; when it fails nothing is
// written and fn's error is returned unchanged. The lease is released
// before Invoke returns either way.
func (h *Host) Invoke(ctx context.Context, label string, metas []AccountMeta, fn Func) (*storage.JournalEntry, error) {
	if err := h.acquire(ctx); err != nil {
		return nil, err
	}
	defer h.release()

	accounts, writable, err := h.load(metas)
	if err != nil {
		return nil, err
	}

	lease := ledger.NewLease(accounts, writable)
	err = func() error {
		defer lease.Release()
		return fn(lease.Slots())
	}()

	log := h.log.WithField("operation", label)
	if err != nil {
		log.WithError(err).Warn("Invocation failed")
		return nil, err
	}

	entry := &storage.JournalEntry{Operation: label, Accounts: make([]string, len(metas))}
	for i, m := range metas {
		entry.Accounts[i] = m.Key.String()
	}
	if _, err := h.store.Commit(lease.Writable(), entry); err != nil {
		return nil, err
	}

	log.WithField("journal_id", entry.ID).Info("Invocation committed")
	return entry, nil
}

func (h *Host) load(metas []AccountMeta) ([]*ledger.Account, []bool, error) {
	accounts := make([]*ledger.Account, len(metas))
	writable := make([]bool, len(metas))
	seen := make(map[identity.Identity]struct{}, len(metas))

	for i, m := range metas {
		if _, dup := seen[m.Key]; dup {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, m.Key)
		}
		seen[m.Key] = struct{}{}

		if m.Key == ledger.RentSysvarID {
			if m.Writable {
				return nil, nil, fmt.Errorf("%w: %s", ErrReservedAccount, m.Key)
			}
			accounts[i] = h.rentAccount()
			continue
		}

		account, err := h.store.GetAccount(m.Key)
		if err != nil {
			return nil, nil, err
		}
		accounts[i] = account
		writable[i] = m.Writable
	}
	return accounts, writable, nil
}

// Journal returns up to limit journal entries, newest first.
func (h *Host) Journal(ctx context.Context, limit int) ([]storage.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.store.Journal(limit)
}
