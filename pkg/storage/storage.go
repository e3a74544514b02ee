// Package storage persists host accounts and the invocation journal in
// pebble.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/ledger"
)

const (
	accountPrefix = "a/"
	journalPrefix = "j/"
)

// ErrNotFound is returned when an account does not exist.
var ErrNotFound = errors.New("account not found")

// JournalEntry records one committed invocation.
type JournalEntry struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Accounts  []string  `json:"accounts"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultStorage keys journal entries by a strictly increasing sequence
// number, recovered from the last journal key when the database opens.
type DefaultStorage struct {
	db *pebble.DB

	mu         sync.Mutex
	journalSeq uint64
}

// NewDefaultStorage opens (or creates) a pebble database at path.
func NewDefaultStorage(path string) (*DefaultStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open account store at %s", path)
	}
	return newStorage(db)
}

// NewMemStorage opens an in-memory database. Nothing survives Close.
func NewMemStorage() (*DefaultStorage, error) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, errors.Wrap(err, "open in-memory account store")
	}
	return newStorage(db)
}

func newStorage(db *pebble.DB) (*DefaultStorage, error) {
	s := &DefaultStorage{db: db}
	seq, err := s.lastJournalSeq()
	if err != nil {
		db.Close()
		return nil, err
	}
	s.journalSeq = seq
	return s, nil
}

func journalKey(seq uint64) []byte {
	key := make([]byte, len(journalPrefix)+8)
	copy(key, journalPrefix)
	binary.BigEndian.PutUint64(key[len(journalPrefix):], seq)
	return key
}

func (s *DefaultStorage) lastJournalSeq() (uint64, error) {
	iter, err := s.newJournalIter()
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, errors.Wrap(iter.Error(), "find last journal entry")
	}
	key := iter.Key()
	if len(key) != len(journalPrefix)+8 {
		return 0, errors.Newf("malformed journal key %x", key)
	}
	return binary.BigEndian.Uint64(key[len(journalPrefix):]), nil
}

func (s *DefaultStorage) newJournalIter() (*pebble.Iterator, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(journalPrefix),
		UpperBound: prefixEnd([]byte(journalPrefix)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open journal iterator")
	}
	return iter, nil
}

func accountKey(key identity.Identity) []byte {
	return append([]byte(accountPrefix), key[:]...)
}

// GetAccount loads the account stored under key.
func (s *DefaultStorage) GetAccount(key identity.Identity) (*ledger.Account, error) {
	raw, closer, err := s.db.Get(accountKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "%s", key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read account %s", key)
	}
	defer closer.Close()

	account, err := ledger.DecodeAccount(key, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode account %s", key)
	}
	return account, nil
}

// HasAccount reports whether an account exists under key.
func (s *DefaultStorage) HasAccount(key identity.Identity) (bool, error) {
	_, closer, err := s.db.Get(accountKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "read account %s", key)
	}
	closer.Close()
	return true, nil
}

// PutAccount writes a single account.
func (s *DefaultStorage) PutAccount(a *ledger.Account) error {
	_, err := s.Commit([]*ledger.Account{a}, nil)
	return err
}

// Commit writes accounts and, if entry is non-nil, a journal entry in one
// synced batch. Either everything is written or nothing is. The returned
// id is the journal entry's id, or ksuid.Nil without an entry.
func (s *DefaultStorage) Commit(accounts []*ledger.Account, entry *JournalEntry) (ksuid.KSUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.db.NewBatch()
	defer batch.Close()

	for _, a := range accounts {
		raw, err := ledger.EncodeAccount(a)
		if err != nil {
			return ksuid.Nil, errors.Wrapf(err, "encode account %s", a.Key)
		}
		if err := batch.Set(accountKey(a.Key), raw, nil); err != nil {
			return ksuid.Nil, errors.Wrapf(err, "stage account %s", a.Key)
		}
	}

	id := ksuid.Nil
	seq := s.journalSeq
	if entry != nil {
		seq++
		id = ksuid.New()
		entry.ID = id.String()
		if entry.Timestamp.IsZero() {
			entry.Timestamp = id.Time().UTC()
		}
		raw, err := json.Marshal(entry)
		if err != nil {
			return ksuid.Nil, errors.Wrap(err, "encode journal entry")
		}
		if err := batch.Set(journalKey(seq), raw, nil); err != nil {
			return ksuid.Nil, errors.Wrap(err, "stage journal entry")
		}
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, errors.Wrap(err, "commit batch")
	}
	s.journalSeq = seq
	return id, nil
}

// Journal returns up to limit journal entries, newest first. A limit of 0
// or less returns every entry.
func (s *DefaultStorage) Journal(limit int) ([]JournalEntry, error) {
	iter, err := s.newJournalIter()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []JournalEntry
	for valid := iter.Last(); valid; valid = iter.Prev() {
		var entry JournalEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, errors.Wrapf(err, "decode journal entry %x", iter.Key())
		}
		entries = append(entries, entry)
		if limit > 0 && len(entries) >= limit {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate journal")
	}
	return entries, nil
}

// Close closes the database.
func (s *DefaultStorage) Close() error {
	return s.db.Close()
}

func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
