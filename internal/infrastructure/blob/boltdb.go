package blob

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/usecase"
)

// Store keeps attachment blobs in a local BoltDB file. Task documents
// carry only attachment metadata; the bytes live here.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

type record struct {
	Meta domain.Attachment `json:"meta"`
	Data []byte            `json:"data"`
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "attachments"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

func (s *Store) Put(id string, meta domain.Attachment, data []byte) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if id == "" || len(data) == 0 {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(record{Meta: meta, Data: data})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(id), payload)
	})
}

func (s *Store) Get(id string) (domain.Attachment, []byte, error) {
	if s == nil || s.db == nil {
		return domain.Attachment{}, nil, bolt.ErrDatabaseNotOpen
	}

	var rec record
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(id))
		if raw == nil {
			return domain.ErrAttachmentNotFound
		}
		return json.Unmarshal(raw, &rec)
	})
	if err != nil {
		return domain.Attachment{}, nil, err
	}
	return rec.Meta, rec.Data, nil
}

func (s *Store) Delete(id string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(id))
	})
}

// Size returns the number of stored blobs.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ usecase.BlobStore = (*Store)(nil)
