/* Copyright 2023 Jens Keiner
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package csio

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
	"github.com/jenskeiner/exchange-calendars-extensions-api/registry"

	bolt "go.etcd.io/bbolt"
)

// BoltStore persists changesets in a Bolt database: one bucket per
// exchange, one record per date.
type BoltStore struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

// dateRecord is the stored form of everything a changeset says about
// one date.
type dateRecord struct {
	Add    map[string]interface{} `json:"add,omitempty"`
	Remove bool                   `json:"remove,omitempty"`
	Meta   *changes.DateMeta      `json:"meta,omitempty"`
}

// NewBoltStore makes a store backed by the given file.  Call Open
// before use.
func NewBoltStore(filename string) *BoltStore {
	return &BoltStore{filename: filename}
}

// Open opens the database file.
func (s *BoltStore) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}
	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Close closes the database.
func (s *BoltStore) Close(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BoltStore) logf(format string, args ...interface{}) {
	if s == nil {
		return
	}
	if s.Debug {
		log.Printf("BoltStore "+format, args...)
	}
}

// EnsureExchange makes the exchange's bucket if it doesn't exist.
func (s *BoltStore) EnsureExchange(ctx context.Context, exchange string) error {
	if s == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(exchange))
		return err
	})
}

// RemExchange drops the exchange's bucket.
func (s *BoltStore) RemExchange(ctx context.Context, exchange string) error {
	if s == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(exchange)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(exchange))
	})
}

// Exchanges lists the exchanges in the store.
func (s *BoltStore) Exchanges(ctx context.Context) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	acc := make([]string, 0, 8)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			acc = append(acc, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// GetChangeSet rebuilds the exchange's changeset from its per-date
// records.  An unknown exchange gives nil without error.
func (s *BoltStore) GetChangeSet(ctx context.Context, exchange string) (*changes.ChangeSet, error) {
	if s == nil {
		return nil, nil
	}
	var cs *changes.ChangeSet
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(exchange))
		if b == nil {
			return nil
		}
		cs = changes.NewChangeSet()
		c := b.Cursor()
		for k, bs := c.First(); k != nil; k, bs = c.Next() {
			date, err := changes.ParseDate(string(k))
			if err != nil {
				return err
			}
			var rec dateRecord
			if err := json.Unmarshal(bs, &rec); err != nil {
				return err
			}
			if rec.Add != nil {
				props, err := changes.ParseProps(rec.Add)
				if err != nil {
					return err
				}
				if err := cs.AddDay(date, props); err != nil {
					return err
				}
			}
			if rec.Remove {
				if err := cs.RemoveDay(date); err != nil {
					return err
				}
			}
			if rec.Meta != nil {
				cs.SetMeta(date, rec.Meta)
			}
			s.logf("GetChangeSet %s %s", exchange, k)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// WriteChangeSet replaces the exchange's records with the given
// changeset's.
func (s *BoltStore) WriteChangeSet(ctx context.Context, exchange string, cs *changes.ChangeSet) error {
	if s == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(exchange)) != nil {
			if err := tx.DeleteBucket([]byte(exchange)); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket([]byte(exchange))
		if err != nil {
			return err
		}

		recs := make(map[changes.Date]*dateRecord, cs.Len())
		rec := func(d changes.Date) *dateRecord {
			r, have := recs[d]
			if !have {
				r = &dateRecord{}
				recs[d] = r
			}
			return r
		}
		for d, p := range cs.Add {
			rec(d).Add = changes.PropsToMap(p)
		}
		for _, d := range cs.Remove {
			rec(d).Remove = true
		}
		for d, m := range cs.Meta {
			rec(d).Meta = m
		}

		for d, r := range recs {
			bs, err := json.Marshal(r)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(d.String()), bs); err != nil {
				return err
			}
			s.logf("WriteChangeSet %s %s", exchange, d)
		}
		return nil
	})
}

// LoadRegistry reads every exchange into a fresh registry.
func (s *BoltStore) LoadRegistry(ctx context.Context) (*registry.Registry, error) {
	r := registry.New()
	if s == nil {
		return r, nil
	}
	exchanges, err := s.Exchanges(ctx)
	if err != nil {
		return nil, err
	}
	for _, exchange := range exchanges {
		cs, err := s.GetChangeSet(ctx, exchange)
		if err != nil {
			return nil, err
		}
		if cs != nil {
			r.Set(exchange, cs)
		}
	}
	return r, nil
}

// WriteRegistry writes every exchange's changeset and drops buckets
// for exchanges the registry no longer has.
func (s *BoltStore) WriteRegistry(ctx context.Context, r *registry.Registry) error {
	if s == nil {
		return nil
	}
	have, err := s.Exchanges(ctx)
	if err != nil {
		return err
	}
	c := r.Copy()
	for _, exchange := range have {
		if _, still := c.ChangeSets[exchange]; !still {
			if err := s.RemExchange(ctx, exchange); err != nil {
				return err
			}
		}
	}
	for exchange, cs := range c.ChangeSets {
		if err := s.WriteChangeSet(ctx, exchange, cs); err != nil {
			return err
		}
	}
	return nil
}
