// Package favorites persists starred catalogue entries in a bbolt database.
package favorites

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Source buckets known at open time.
const (
	SourceRickMorty = "rickmorty"
	SourcePokemon   = "pokemon"
)

var knownSources = []string{SourceRickMorty, SourcePokemon}

// ErrUnknownSource is returned for a bucket the store was not opened with.
var ErrUnknownSource = errors.New("unknown favorites source")

// Favorite is one starred entry.
type Favorite struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// Store is a bbolt-backed favorites database with one bucket per source.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create favorites dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open favorites db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range knownSources {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize favorites buckets: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Toggle stars or unstars id and returns the new state.
func (s *Store) Toggle(source string, id int, name string) (bool, error) {
	var starred bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, source)
		if err != nil {
			return err
		}
		k := key(id)
		if b.Get(k) != nil {
			return b.Delete(k)
		}
		data, err := json.Marshal(Favorite{ID: id, Name: name, AddedAt: s.now().UTC()})
		if err != nil {
			return err
		}
		starred = true
		return b.Put(k, data)
	})
	if err != nil {
		return false, fmt.Errorf("toggle favorite %s/%d: %w", source, id, err)
	}
	return starred, nil
}

// Contains reports whether id is starred. Lookup errors count as not starred.
func (s *Store) Contains(source string, id int) bool {
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, source)
		if err != nil {
			return err
		}
		found = b.Get(key(id)) != nil
		return nil
	})
	return found
}

// List returns the starred entries for source ordered by id.
func (s *Store) List(source string) ([]Favorite, error) {
	var favs []Favorite
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, source)
		if err != nil {
			return err
		}
		return b.ForEach(func(_, v []byte) error {
			var f Favorite
			if err := json.Unmarshal(v, &f); err != nil {
				return err
			}
			favs = append(favs, f)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list favorites %s: %w", source, err)
	}
	sort.Slice(favs, func(i, j int) bool { return favs[i].ID < favs[j].ID })
	return favs, nil
}

// IDs returns the starred ids for source as a set.
func (s *Store) IDs(source string) (map[int]bool, error) {
	favs, err := s.List(source)
	if err != nil {
		return nil, err
	}
	ids := make(map[int]bool, len(favs))
	for _, f := range favs {
		ids[f.ID] = true
	}
	return ids, nil
}

func bucket(tx *bolt.Tx, source string) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(source))
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return b, nil
}

// key encodes id big-endian so cursor order matches numeric order.
func key(id int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}
