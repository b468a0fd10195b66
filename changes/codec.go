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

package changes

import (
	"encoding/json"
	"fmt"
	"time"
)

// The wire shape of a changeset is a plain nested mapping with the
// three top-level keys "add", "remove", and "meta".  FromMap is the
// single strict decoding path; the JSON and YAML codecs both funnel
// through it, so they reject exactly the same bad input.

// FromMap builds a ChangeSet from its plain nested-mapping shape.
//
// Unknown top-level keys are rejected.  Date keys may be strings,
// Dates, or time.Times; richer timestamps are truncated to day
// granularity.  The result is validated and canonical.
func FromMap(m map[string]interface{}) (*ChangeSet, error) {
	for k := range m {
		switch k {
		case "add", "remove", "meta":
		default:
			return nil, &BadShape{Reason: fmt.Sprintf("unknown field %q", k)}
		}
	}

	cs := NewChangeSet()

	if raw, has := m["add"]; has && raw != nil {
		add, is := asStringMap(raw)
		if !is {
			return nil, &BadShape{Reason: "field \"add\" is not a mapping"}
		}
		for k, v := range add {
			date, err := asDate(k)
			if err != nil {
				return nil, err
			}
			pm, is := asStringMap(v)
			if !is {
				return nil, &BadShape{Reason: fmt.Sprintf("props for %s is not a mapping", date)}
			}
			props, err := propsFromMap(pm)
			if err != nil {
				return nil, err
			}
			cs.Add[date] = props
		}
	}

	if raw, has := m["remove"]; has && raw != nil {
		remove, is := raw.([]interface{})
		if !is {
			return nil, &BadShape{Reason: "field \"remove\" is not a sequence"}
		}
		for _, v := range remove {
			date, err := asDate(v)
			if err != nil {
				return nil, err
			}
			cs.Remove = append(cs.Remove, date)
		}
	}

	if raw, has := m["meta"]; has && raw != nil {
		metas, is := asStringMap(raw)
		if !is {
			return nil, &BadShape{Reason: "field \"meta\" is not a mapping"}
		}
		for k, v := range metas {
			date, err := asDate(k)
			if err != nil {
				return nil, err
			}
			mm, is := asStringMap(v)
			if !is {
				return nil, &BadShape{Reason: fmt.Sprintf("metadata for %s is not a mapping", date)}
			}
			meta, err := metaFromMap(mm)
			if err != nil {
				return nil, err
			}
			cs.Meta[date] = meta
		}
	}

	if err := cs.Validate(); err != nil {
		return nil, err
	}
	cs.Canonicalize()

	return cs, nil
}

// ToMap renders the changeset in the plain nested-mapping shape that
// FromMap accepts, with string date keys.  Empty sections are
// omitted, so FromMap(cs.ToMap()) gives back an equal changeset.
func (cs *ChangeSet) ToMap() map[string]interface{} {
	acc := make(map[string]interface{}, 3)

	if len(cs.Add) > 0 {
		add := make(map[string]interface{}, len(cs.Add))
		for _, d := range cs.Dates() {
			add[d.String()] = propsToMap(cs.Add[d])
		}
		acc["add"] = add
	}

	if len(cs.Remove) > 0 {
		remove := make([]interface{}, 0, len(cs.Remove))
		for _, d := range dedupDates(cs.Remove) {
			remove = append(remove, d.String())
		}
		acc["remove"] = remove
	}

	if len(cs.Meta) > 0 {
		metas := make(map[string]interface{}, len(cs.Meta))
		for _, d := range cs.MetaDates() {
			metas[d.String()] = metaToMap(cs.Meta[d])
		}
		acc["meta"] = metas
	}

	return acc
}

// MarshalJSON writes the canonical wire shape.  Map keys come out in
// ascending date order, so serialization is deterministic and a
// parse→serialize round trip is idempotent.
func (cs *ChangeSet) MarshalJSON() ([]byte, error) {
	canonical := cs.Copy()
	canonical.Canonicalize()
	return json.Marshal(struct {
		Add    map[Date]Props     `json:"add,omitempty"`
		Remove []Date             `json:"remove,omitempty"`
		Meta   map[Date]*DateMeta `json:"meta,omitempty"`
	}{
		Add:    canonical.Add,
		Remove: canonical.Remove,
		Meta:   canonical.Meta,
	})
}

// UnmarshalJSON parses the wire shape strictly via FromMap.
func (cs *ChangeSet) UnmarshalJSON(bs []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(bs, &m); err != nil {
		return err
	}
	parsed, err := FromMap(m)
	if err != nil {
		return err
	}
	*cs = *parsed
	return nil
}

// ParseJSON parses a changeset from its JSON wire shape.
func ParseJSON(bs []byte) (*ChangeSet, error) {
	cs := NewChangeSet()
	if err := json.Unmarshal(bs, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// asDate accepts a date string, a Date, or a time.Time.
func asDate(x interface{}) (Date, error) {
	switch v := x.(type) {
	case string:
		return ParseDate(v)
	case Date:
		return v, nil
	case time.Time:
		return DateOf(v), nil
	}
	return Date{}, &BadDate{Value: x}
}

// asStringMap accepts a string-keyed map or, as YAML decoders
// produce, an interface-keyed map with string keys.
func asStringMap(x interface{}) (map[string]interface{}, bool) {
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
