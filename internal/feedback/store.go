// Package feedback persists user ratings in a bounded, append-only log backed by bbolt.
// The whole log lives as one JSON array under a fixed key, so a read always returns
// the complete history in insertion order.
package feedback

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/bounded"
	bolt "go.etcd.io/bbolt"
)

// DefaultCapacity is the maximum number of records kept.
const DefaultCapacity = 50

// Bucket and key names
var (
	bucketLocal = []byte("local")
	keyFeedback = []byte("ayurveda_feedback")
)

// Record is one rating.
type Record struct {
	Value     int    `json:"value"`
	Timestamp string `json:"timestamp"` // RFC 3339 (ISO-8601), UTC
}

// Store is the bbolt-backed feedback log.
type Store struct {
	db       *bolt.DB
	capacity int
}

// NewStore opens (or creates) the database at path. A non-positive capacity uses DefaultCapacity.
func NewStore(path string, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, capacity: capacity}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records a rating taken at the given time. Once the log is full the oldest
// record is evicted. Values are stored as given.
func (s *Store) Append(value int, at time.Time) (Record, error) {
	rec := Record{Value: value, Timestamp: at.UTC().Format(time.RFC3339Nano)}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketLocal)
		if err != nil {
			return err
		}
		records, err := decode(b.Get(keyFeedback))
		if err != nil {
			return err
		}
		records = bounded.Append(records, rec, s.capacity)
		data, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshal feedback: %w", err)
		}
		return b.Put(keyFeedback, data)
	})
	if err != nil {
		return Record{}, fmt.Errorf("append feedback: %w", err)
	}
	return rec, nil
}

// List returns every stored record, oldest first, or an empty slice when nothing is stored.
func (s *Store) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLocal)
		if b == nil {
			return nil
		}
		var err error
		records, err = decode(b.Get(keyFeedback))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Clear removes the stored log.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLocal)
		if b == nil {
			return nil
		}
		return b.Delete(keyFeedback)
	})
}

// decode parses a stored array. The returned slice never aliases bbolt memory.
func decode(data []byte) ([]Record, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal feedback: %w", err)
	}
	return records, nil
}
