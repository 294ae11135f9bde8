package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/inovacc/worklog/internal/model"
	"go.etcd.io/bbolt"
)

const (
	boltBucketSession = "session" // key: "current" -> SessionUser JSON

	boltKeySnapshot = "snapshot"
	boltKeySession  = "current"
)

// Bolt is the bbolt-backed Cache. One bucket per entity collection holds
// a single whole-collection snapshot; a session bucket holds the
// logged-in user.
type Bolt struct {
	storage *bbolt.DB
}

// NewBolt opens or creates the cache database at the given path.
func NewBolt(path string) (*Bolt, error) {
	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		for _, et := range model.AllEntityTypes() {
			if _, err := tx.CreateBucketIfNotExists([]byte(et)); err != nil {
				return err
			}
		}

		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucketSession)); err != nil {
			return err
		}

		return nil
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.storage.Close()
}

// Snapshot returns the stored collection for the entity type.
func (b *Bolt) Snapshot(et model.EntityType) ([]byte, bool, error) {
	var data []byte

	err := b.storage.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(et))
		if bucket == nil {
			return fmt.Errorf("missing bucket %q", et)
		}

		if v := bucket.Get([]byte(boltKeySnapshot)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return data, data != nil, nil
}

// PutSnapshot replaces the stored collection for the entity type.
func (b *Bolt) PutSnapshot(et model.EntityType, data []byte) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(et))
		if bucket == nil {
			return fmt.Errorf("missing bucket %q", et)
		}

		return bucket.Put([]byte(boltKeySnapshot), data)
	})
}

// Session returns the persisted logged-in user, or nil when logged out.
func (b *Bolt) Session() (*model.SessionUser, error) {
	var user *model.SessionUser

	err := b.storage.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketSession))
		if bucket == nil {
			return fmt.Errorf("missing bucket %q", boltBucketSession)
		}

		v := bucket.Get([]byte(boltKeySession))
		if v == nil {
			return nil
		}

		var u model.SessionUser
		if err := json.Unmarshal(v, &u); err != nil {
			return err
		}
		user = &u

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// PutSession persists the logged-in user.
func (b *Bolt) PutSession(u model.SessionUser) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketSession))
		if bucket == nil {
			return fmt.Errorf("missing bucket %q", boltBucketSession)
		}

		return bucket.Put([]byte(boltKeySession), data)
	})
}

// ClearSession removes the persisted user.
func (b *Bolt) ClearSession() error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketSession))
		if bucket == nil {
			return fmt.Errorf("missing bucket %q", boltBucketSession)
		}

		return bucket.Delete([]byte(boltKeySession))
	})
}
