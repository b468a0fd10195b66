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

package main

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jenskeiner/exchange-calendars-extensions-api/csio"
	"github.com/jenskeiner/exchange-calendars-extensions-api/registry"
	. "github.com/jenskeiner/exchange-calendars-extensions-api/util/testutil"
)

// Service holds the in-memory registry of changesets and (optionally)
// its durable storage.
//
// Writes go through SOp.Do, which applies the mutation to the
// registry, persists the exchange's changeset, and forwards the
// operation to the feeds for the WebSocket service and the MQTT
// publisher (if any).
type Service struct {
	Errors  chan error
	Tracing bool

	registry *registry.Registry
	store    *csio.BoltStore

	feedMu sync.Mutex
	feeds  []chan interface{}
}

// feed returns a new channel that will receive every applied
// operation.  The WebSocket service and the MQTT publisher each get
// their own.
func (s *Service) feed() chan interface{} {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	c := make(chan interface{}, 1024)
	s.feeds = append(s.feeds, c)
	return c
}

func (s *Service) trf(format string, args ...interface{}) {
	if !s.Tracing {
		return
	}
	log.Printf("trace "+format, args...)
}

// NewService opens the given database file (if any) and loads the
// registry from it.
//
// With an empty dbFile the service runs purely in memory.
func NewService(ctx context.Context, dbFile string) (*Service, error) {

	var store *csio.BoltStore
	r := registry.New()

	if dbFile != "" {
		store = csio.NewBoltStore(dbFile)
		if err := store.Open(ctx); err != nil {
			return nil, err
		}

		go func() {
			<-ctx.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := store.Close(ctx); err != nil {
				log.Printf("Service.store.Close error %s", err)
				// Race if we try to use s.Errors.
			}
		}()

		var err error
		if r, err = store.LoadRegistry(ctx); err != nil {
			return nil, err
		}
	}

	s := Service{
		registry: r,
		store:    store,
	}

	return &s, nil
}

// Registry returns a deep copy for safe reading.
func (s *Service) Registry() *registry.Registry {
	return s.registry.Copy()
}

// persist writes one exchange's changeset through to storage.
//
// A persist failure doesn't undo the in-memory mutation.  The
// checkpointer will retry the whole registry later.
func (s *Service) persist(ctx context.Context, exchange string) {
	if s.store == nil {
		return
	}

	cs, have := s.registry.Get(exchange)

	var err error
	if have {
		err = s.store.WriteChangeSet(ctx, exchange, cs)
	} else {
		err = s.store.RemExchange(ctx, exchange)
	}
	if err != nil {
		s.err(err)
	}
}

// Checkpoint writes the whole registry to storage.
func (s *Service) Checkpoint(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.WriteRegistry(ctx, s.registry.Copy())
}

// op forwards an applied operation to the feeds.
func (s *Service) op(ctx context.Context, x interface{}) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	if len(s.feeds) == 0 {
		return
	}

	y := Dejs(JS(x))
	for _, c := range s.feeds {
		select {
		case c <- y:
		default:
			log.Printf("Service ops chan blocked")
		}
	}
}

func (s *Service) err(err error) {
	if s.Errors != nil {
		select {
		case s.Errors <- err:
			return
		default:
		}
	}
	log.Println(err)
}
