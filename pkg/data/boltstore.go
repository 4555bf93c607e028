package data

import (
	"encoding/json"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

var playersBucket = []byte("players")

// BoltStore keeps player ratings in a BoltDB file, one JSON value per player
type BoltStore struct {
	db         *bolt.DB
	baseRating int
}

// OpenBoltStore opens or creates the database at path
func OpenBoltStore(path string, baseRating int) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(playersBucket)
		return errors.Wrap(err, "unable to create bucket")
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db, baseRating: baseRating}, nil
}

// Load implements Store
func (b *BoltStore) Load(ids []string) (map[string]PlayerRecord, error) {
	out := make(map[string]PlayerRecord, len(ids))
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(playersBucket)
		for _, id := range ids {
			record := PlayerRecord{ID: id, Rating: b.baseRating}
			if v := bucket.Get([]byte(id)); len(v) > 0 {
				if err := json.Unmarshal(v, &record); err != nil {
					return errors.Wrapf(err, "unable to unmarshal player %s", id)
				}
			}
			out[id] = record
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save implements Store. All records are written in one transaction.
func (b *BoltStore) Save(records []PlayerRecord) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(playersBucket)
		for _, r := range records {
			data, err := json.Marshal(r)
			if err != nil {
				return errors.Wrap(err, "unable to marshal player into json")
			}
			if err := bucket.Put([]byte(r.ID), data); err != nil {
				return errors.Wrapf(err, "error putting player %s", r.ID)
			}
		}
		return nil
	})
	return errors.Wrap(err, "unable to save players")
}

// All implements Store
func (b *BoltStore) All() ([]PlayerRecord, error) {
	all := make(map[string]PlayerRecord)
	err := b.db.View(func(tx *bolt.Tx) error {
		return errors.Wrap(tx.Bucket(playersBucket).ForEach(func(k, v []byte) error {
			var r PlayerRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return errors.Wrap(err, "unable to unmarshal player")
			}
			all[r.ID] = r
			return nil
		}), "unable to read bucket contents")
	})
	if err != nil {
		return nil, err
	}
	return sortRecords(all), nil
}

// Close implements Store
func (b *BoltStore) Close() error {
	return errors.Wrap(b.db.Close(), "unable to close database")
}
