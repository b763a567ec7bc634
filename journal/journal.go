// Package journal remembers finished transfers in a small badger database,
// so they can be listed later with `grass history`.
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	e "github.com/pkg/errors"
	"github.com/sahib/grass/transfer"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "transfer."

// Possible values of Entry.Status
const (
	StatusOK     = "ok"
	StatusShort  = "short"
	StatusFailed = "failed"
)

// Entry is a single recorded transfer.
type Entry struct {
	ID          string        `json:"id"`
	Kind        string        `json:"kind"`
	Name        string        `json:"name"`
	Host        string        `json:"host"`
	Port        int           `json:"port"`
	Size        int64         `json:"size"`
	Transferred int64         `json:"transferred"`
	Status      string        `json:"status"`
	Error       string        `json:"error,omitempty"`
	Started     time.Time     `json:"started"`
	Duration    time.Duration `json:"duration"`
}

// Journal is a transfer.Recorder backed by badger.
type Journal struct {
	db *badger.DB
}

func open(opts badger.Options) (*Journal, error) {
	db, err := badger.Open(opts.WithLogger(log.WithField("db", "journal")))
	if err != nil {
		return nil, e.Wrap(err, "failed to open journal")
	}

	return &Journal{db: db}, nil
}

// Open opens (or creates) the journal at `path`.
func Open(path string) (*Journal, error) {
	return open(badger.DefaultOptions(path))
}

// OpenInMemory opens a journal that is gone after Close.
func OpenInMemory() (*Journal, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

// Close flushes and closes the database.
func (jr *Journal) Close() error {
	return jr.db.Close()
}

// newEntry converts the outcome of a worker into a storable entry.
func newEntry(outcome transfer.Outcome) Entry {
	entry := Entry{
		ID:          uuid.New().String(),
		Kind:        outcome.Kind.String(),
		Name:        outcome.Request.Name,
		Host:        outcome.Request.Host,
		Port:        outcome.Request.Port,
		Size:        outcome.Request.Size,
		Transferred: outcome.Transferred,
		Status:      StatusOK,
		Started:     outcome.Started,
		Duration:    outcome.Duration,
	}

	if outcome.Err != nil {
		entry.Status = StatusFailed
		if transfer.IsShortTransfer(outcome.Err) {
			entry.Status = StatusShort
		}

		entry.Error = outcome.Err.Error()
	}

	return entry
}

// The key sorts by start time, the id keeps concurrent transfers apart.
func entryKey(entry Entry) []byte {
	return []byte(fmt.Sprintf("%s%020d.%s", keyPrefix, entry.Started.UnixNano(), entry.ID))
}

// Record stores `outcome` as new entry.
func (jr *Journal) Record(outcome transfer.Outcome) error {
	entry := newEntry(outcome)
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return jr.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(entry), data)
	})
}

// List returns the newest `limit` entries, newest first.
// A limit <= 0 returns all of them.
func (jr *Journal) List(limit int) ([]Entry, error) {
	entries := []Entry{}
	err := jr.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)

		iter := txn.NewIterator(opts)
		defer iter.Close()

		// In reverse mode, seeking to the end of the prefix range
		// positions us at the newest entry.
		for iter.Seek([]byte(keyPrefix + "\xff")); iter.Valid(); iter.Next() {
			if limit > 0 && len(entries) >= limit {
				break
			}

			entry := Entry{}
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})

			if err != nil {
				return e.Wrapf(err, "bad journal entry %s", iter.Item().Key())
			}

			entries = append(entries, entry)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return entries, nil
}
