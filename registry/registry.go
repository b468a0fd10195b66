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

// Package registry maps exchange identifiers ("XETR", "XNYS") to
// their changesets.
//
// A Registry is a thin container: uniqueness of the exchange key is
// its only invariant.  It serializes as a plain mapping from exchange
// to changeset wire shape.
//
// The Registry's lock covers the map, not the changesets in it.  A
// single changeset's mutations must still be serialized by the
// caller; Update does that under the registry's write lock.
package registry

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
)

// Registry holds one ChangeSet per exchange.
type Registry struct {
	sync.RWMutex

	ChangeSets map[string]*changes.ChangeSet
}

// New makes an empty Registry.
func New() *Registry {
	return &Registry{
		ChangeSets: make(map[string]*changes.ChangeSet),
	}
}

// Get returns the changeset for the exchange, if any.
func (r *Registry) Get(exchange string) (*changes.ChangeSet, bool) {
	r.RLock()
	cs, have := r.ChangeSets[exchange]
	r.RUnlock()
	return cs, have
}

// Set stores the changeset for the exchange, replacing any previous
// one.
func (r *Registry) Set(exchange string, cs *changes.ChangeSet) {
	r.Lock()
	if r.ChangeSets == nil {
		r.ChangeSets = make(map[string]*changes.ChangeSet)
	}
	r.ChangeSets[exchange] = cs
	r.Unlock()
}

// Delete drops the exchange's changeset and reports whether one was
// there.
func (r *Registry) Delete(exchange string) bool {
	r.Lock()
	_, had := r.ChangeSets[exchange]
	delete(r.ChangeSets, exchange)
	r.Unlock()
	return had
}

// Contains reports whether the exchange has a changeset.
func (r *Registry) Contains(exchange string) bool {
	_, have := r.Get(exchange)
	return have
}

// Names returns the exchange identifiers, sorted.
func (r *Registry) Names() []string {
	r.RLock()
	acc := make([]string, 0, len(r.ChangeSets))
	for exchange := range r.ChangeSets {
		acc = append(acc, exchange)
	}
	r.RUnlock()
	sort.Strings(acc)
	return acc
}

// Len is the number of exchanges with a changeset.
func (r *Registry) Len() int {
	r.RLock()
	n := len(r.ChangeSets)
	r.RUnlock()
	return n
}

// Update runs f on the exchange's changeset under the registry's
// write lock, creating an empty changeset first if the exchange has
// none.  If f returns an error, a changeset created by this call is
// dropped again; f itself must leave an existing changeset unchanged
// on error, which every changes.ChangeSet mutation does.
func (r *Registry) Update(exchange string, f func(*changes.ChangeSet) error) error {
	r.Lock()
	defer r.Unlock()

	if r.ChangeSets == nil {
		r.ChangeSets = make(map[string]*changes.ChangeSet)
	}
	cs, had := r.ChangeSets[exchange]
	if !had {
		cs = changes.NewChangeSet()
	}
	if err := f(cs); err != nil {
		return err
	}
	r.ChangeSets[exchange] = cs
	return nil
}

// Each runs f on every exchange in sorted order, stopping at the
// first error.  The registry's lock is not held during f, so f may
// call back into the registry.
func (r *Registry) Each(f func(exchange string, cs *changes.ChangeSet) error) error {
	for _, exchange := range r.Names() {
		cs, have := r.Get(exchange)
		if !have {
			continue
		}
		if err := f(exchange, cs); err != nil {
			return err
		}
	}
	return nil
}

// Copy gets a read lock and returns a deep copy of the registry.
func (r *Registry) Copy() *Registry {
	r.RLock()
	acc := New()
	for exchange, cs := range r.ChangeSets {
		acc.ChangeSets[exchange] = cs.Copy()
	}
	r.RUnlock()
	return acc
}

// MarshalJSON writes the registry as a plain mapping from exchange to
// changeset wire shape, exchanges in sorted order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	r.RLock()
	defer r.RUnlock()
	return json.Marshal(r.ChangeSets)
}

// UnmarshalJSON parses the mapping strictly: every changeset must
// validate.
func (r *Registry) UnmarshalJSON(bs []byte) error {
	var css map[string]*changes.ChangeSet
	if err := json.Unmarshal(bs, &css); err != nil {
		return err
	}
	r.Lock()
	if css == nil {
		css = make(map[string]*changes.ChangeSet)
	}
	r.ChangeSets = css
	r.Unlock()
	return nil
}
