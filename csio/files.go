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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
	"github.com/jenskeiner/exchange-calendars-extensions-api/registry"

	"github.com/jsccast/yaml"
)

// FileStore keeps a registry of changesets as a single JSON or YAML
// file, picked by extension.
//
// Not glamorous or efficient.
type FileStore struct {
	// Filename is where the registry lives.  ".yaml" and ".yml"
	// mean YAML; anything else means JSON.
	Filename string
}

// NewFileStore makes a FileStore for the given filename.
func NewFileStore(filename string) *FileStore {
	return &FileStore{Filename: filename}
}

// LoadRegistry reads the registry file.  A missing file gives an
// empty registry.
func (s *FileStore) LoadRegistry(ctx context.Context) (*registry.Registry, error) {
	bs, err := os.ReadFile(s.Filename)
	if os.IsNotExist(err) {
		return registry.New(), nil
	}
	if err != nil {
		return nil, err
	}
	return ParseRegistry(bs, isYAML(s.Filename))
}

// WriteRegistry writes the whole registry, pretty-printed when JSON.
func (s *FileStore) WriteRegistry(ctx context.Context, r *registry.Registry) error {
	var bs []byte
	var err error
	if isYAML(s.Filename) {
		bs, err = MarshalRegistryYAML(r)
	} else {
		bs, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(s.Filename, bs, 0644)
}

// ReadChangeSetFile reads a single changeset from a JSON or YAML
// file, picked by extension.
func ReadChangeSetFile(filename string) (*changes.ChangeSet, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseChangeSet(bs, isYAML(filename))
}

// WriteChangeSetFile writes a changeset as JSON or YAML, picked by
// extension.
func WriteChangeSetFile(filename string, cs *changes.ChangeSet) error {
	var bs []byte
	var err error
	if isYAML(filename) {
		bs, err = yaml.Marshal(cs.ToMap())
	} else {
		bs, err = json.MarshalIndent(cs, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, bs, 0644)
}

// ParseChangeSet parses a changeset from JSON or YAML bytes.
func ParseChangeSet(bs []byte, fromYAML bool) (*changes.ChangeSet, error) {
	if !fromYAML {
		return changes.ParseJSON(bs)
	}
	var x interface{}
	if err := yaml.Unmarshal(bs, &x); err != nil {
		return nil, err
	}
	if x == nil {
		return changes.NewChangeSet(), nil
	}
	m, is := StringMap(x)
	if !is {
		return nil, fmt.Errorf("changeset document is not a mapping")
	}
	return changes.FromMap(m)
}

// ParseRegistry parses a registry from JSON or YAML bytes.
func ParseRegistry(bs []byte, fromYAML bool) (*registry.Registry, error) {
	if !fromYAML {
		r := registry.New()
		if len(bs) == 0 {
			return r, nil
		}
		if err := json.Unmarshal(bs, r); err != nil {
			return nil, err
		}
		return r, nil
	}

	var x interface{}
	if err := yaml.Unmarshal(bs, &x); err != nil {
		return nil, err
	}
	r := registry.New()
	if x == nil {
		return r, nil
	}
	m, is := StringMap(x)
	if !is {
		return nil, fmt.Errorf("registry document is not a mapping")
	}
	for exchange, raw := range m {
		cm, is := StringMap(raw)
		if !is {
			return nil, fmt.Errorf("changeset for %q is not a mapping", exchange)
		}
		cs, err := changes.FromMap(cm)
		if err != nil {
			return nil, fmt.Errorf("changeset for %q: %w", exchange, err)
		}
		r.Set(exchange, cs)
	}
	return r, nil
}

// MarshalRegistryYAML renders the registry as YAML via its wire
// shape.
func MarshalRegistryYAML(r *registry.Registry) ([]byte, error) {
	c := r.Copy()
	acc := make(map[string]interface{}, len(c.ChangeSets))
	for exchange, cs := range c.ChangeSets {
		acc[exchange] = cs.ToMap()
	}
	return yaml.Marshal(acc)
}

// StringMap converts a decoded YAML or JSON mapping to a string-keyed
// map.
func StringMap(x interface{}) (map[string]interface{}, bool) {
	switch v := x.(type) {
	case map[string]interface{}:
		return v, true
	case map[interface{}]interface{}:
		acc := make(map[string]interface{}, len(v))
		for k, val := range v {
			s, is := k.(string)
			if !is {
				return nil, false
			}
			acc[s] = val
		}
		return acc, true
	}
	return nil, false
}

func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
