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

// Package csio moves changesets in and out of the world: JSON and
// YAML files, a Bolt database, HTTP.
//
// The model packages (changes, registry) stay free of IO; everything
// here funnels through their strict map-shaped codecs.
package csio

import (
	"context"

	"github.com/jenskeiner/exchange-calendars-extensions-api/registry"
)

// Store is anything that can persist a whole registry of changesets.
type Store interface {
	// LoadRegistry reads the registry.  A missing or empty store
	// gives an empty registry, not an error.
	LoadRegistry(ctx context.Context) (*registry.Registry, error)

	// WriteRegistry writes the whole registry.
	WriteRegistry(ctx context.Context, r *registry.Registry) error
}
