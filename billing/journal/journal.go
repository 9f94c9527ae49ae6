package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const journalFileName = "submissions.db"

var submissionsBucket = []byte("submissions")

type Status string

const (
	// StatusConfirmed - the service generated a bill.
	StatusConfirmed Status = "confirmed"
	// StatusRejected - the service replied with a non-2xx status.
	StatusRejected Status = "rejected"
	// StatusFailed - the request could not be completed (transport failure
	// or timeout).
	StatusFailed Status = "failed"
)

type (
	// Entry is one journalled submission attempt. The journal records
	// attempts and outcomes only; the bills themselves live on the service.
	Entry struct {
		ID            string    `cbor:"id"`
		CreatedAt     time.Time `cbor:"createdAt"`
		CustomerEmail string    `cbor:"customerEmail"`
		ItemCount     int       `cbor:"itemCount"`
		PaidAmount    float64   `cbor:"paidAmount"`
		Status        Status    `cbor:"status"`
		BillID        string    `cbor:"billId,omitempty"`
		Detail        string    `cbor:"detail,omitempty"`
	}

	// Journal is a local, append-only record of submission attempts stored
	// under the application home directory.
	Journal struct {
		db *bolt.DB
	}
)

func New(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating journal dir %q: %w", dir, err)
	}
	db, err := bolt.Open(filepath.Join(dir, journalFileName), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(submissionsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating journal bucket: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends an attempt to the journal, assigning it an id and timestamp
// when unset.
func (j *Journal) Record(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	data, err := cbor.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding journal entry: %w", err)
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(submissionsBucket).Put(key(e), data)
	})
}

// Entries returns all journalled attempts in chronological order.
func (j *Journal) Entries() ([]*Entry, error) {
	var entries []*Entry
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(submissionsBucket).ForEach(func(_, v []byte) error {
			e := &Entry{}
			if err := cbor.Unmarshal(v, e); err != nil {
				return fmt.Errorf("decoding journal entry: %w", err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// key orders entries chronologically, the id breaks ties.
func key(e *Entry) []byte {
	return []byte(e.CreatedAt.UTC().Format(time.RFC3339Nano) + "/" + e.ID)
}
