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
	"fmt"
	"sort"
	"strings"
)

// DateMeta is free-form metadata for a single date: a set of tags and
// an optional comment.
//
// The canonical form keeps tags sorted and de-duplicated and the
// comment trimmed, with an all-whitespace comment treated as absent.
// A DateMeta of Len 0 means "no metadata at all" and is never stored
// in a ChangeSet.
type DateMeta struct {
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Comment string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Canonicalize sorts and de-duplicates the tags and trims the
// comment.
func (m *DateMeta) Canonicalize() {
	if len(m.Tags) > 0 {
		m.Tags = dedupTags(m.Tags)
	} else {
		m.Tags = nil
	}
	m.Comment = strings.TrimSpace(m.Comment)
}

// Len is the number of tags plus one if a comment is present.
func (m *DateMeta) Len() int {
	n := len(m.Tags)
	if strings.TrimSpace(m.Comment) != "" {
		n++
	}
	return n
}

// Equal compares canonical forms.
func (m *DateMeta) Equal(o *DateMeta) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Comment != o.Comment || len(m.Tags) != len(o.Tags) {
		return false
	}
	for i, tag := range m.Tags {
		if o.Tags[i] != tag {
			return false
		}
	}
	return true
}

// Copy returns a deep copy.
func (m *DateMeta) Copy() *DateMeta {
	if m == nil {
		return nil
	}
	acc := &DateMeta{Comment: m.Comment}
	if m.Tags != nil {
		acc.Tags = make([]string, len(m.Tags))
		copy(acc.Tags, m.Tags)
	}
	return acc
}

// dedupTags returns tags sorted with duplicates dropped.
func dedupTags(tags []string) []string {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	acc := sorted[:0]
	for i, tag := range sorted {
		if i == 0 || sorted[i-1] != tag {
			acc = append(acc, tag)
		}
	}
	if len(acc) == 0 {
		return nil
	}
	return acc
}

// metaFromMap builds a canonical DateMeta from a plain map, rejecting
// unknown keys, non-string tags, and a non-string comment.
func metaFromMap(m map[string]interface{}) (*DateMeta, error) {
	for k := range m {
		switch k {
		case "tags", "comment":
		default:
			return nil, &BadMeta{Reason: fmt.Sprintf("unknown field %q", k)}
		}
	}

	acc := &DateMeta{}

	if raw, has := m["tags"]; has && raw != nil {
		tags, err := asTags(raw)
		if err != nil {
			return nil, err
		}
		acc.Tags = tags
	}

	if raw, has := m["comment"]; has && raw != nil {
		comment, is := raw.(string)
		if !is {
			return nil, &BadMeta{Reason: fmt.Sprintf("field \"comment\" has bad value %v", raw)}
		}
		acc.Comment = comment
	}

	acc.Canonicalize()

	return acc, nil
}

// asTags accepts a []string or a []interface{} of strings.
func asTags(x interface{}) ([]string, error) {
	switch v := x.(type) {
	case []string:
		acc := make([]string, len(v))
		copy(acc, v)
		return acc, nil
	case []interface{}:
		acc := make([]string, 0, len(v))
		for _, tag := range v {
			s, is := tag.(string)
			if !is {
				return nil, &BadMeta{Reason: fmt.Sprintf("tag %v is not a string", tag)}
			}
			acc = append(acc, s)
		}
		return acc, nil
	}
	return nil, &BadMeta{Reason: fmt.Sprintf("field \"tags\" has bad value %v", x)}
}

// metaToMap renders m in the plain-map shape that metaFromMap
// accepts.
func metaToMap(m *DateMeta) map[string]interface{} {
	acc := make(map[string]interface{}, 2)
	if len(m.Tags) > 0 {
		tags := make([]interface{}, len(m.Tags))
		for i, tag := range m.Tags {
			tags[i] = tag
		}
		acc["tags"] = tags
	}
	if m.Comment != "" {
		acc["comment"] = m.Comment
	}
	return acc
}
