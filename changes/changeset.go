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

// ChangeSet represents a modification to an existing exchange
// calendar: dates to add as special days, dates to remove, and
// per-date metadata.
//
// The zero ChangeSet is empty and ready to use.
//
// A changeset is consistent if no date is added under two different
// day types.  Since Add is a single map keyed by date, that holds by
// construction; AddDay additionally refuses to overwrite an existing
// entry, so the first day type a date is added under wins until the
// date is cleared.  The same date may be both added and removed:
// that models un-scheduling whatever the calendar held for the date
// while re-scheduling it under the changeset's single add entry.
// Removals carry no day type, so duplicate removals are harmless and
// collapse during canonicalization.
//
// A consistent changeset can still conflict with the calendar it is
// applied to, if the calendar already categorizes an added date under
// some other day type.  Appliers should treat additions as upserts:
// before adding date d under day type t, remove d from every other
// day type the calendar holds it under.  This package doesn't do
// that cross-referencing; it only guarantees the changeset's own
// structural consistency.
//
// Mutations are all-or-nothing.  On success the changeset is left in
// canonical form; on failure it is observably unchanged.  A ChangeSet
// is not safe for concurrent mutation without external locking.
type ChangeSet struct {
	// Add maps each date to the special day to add.
	Add map[Date]Props `json:"add,omitempty" yaml:"add,omitempty"`

	// Remove lists the dates to remove, ascending, without
	// duplicates.
	Remove []Date `json:"remove,omitempty" yaml:"remove,omitempty"`

	// Meta maps dates to their metadata.  A date with empty
	// metadata does not appear at all.
	Meta map[Date]*DateMeta `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// NewChangeSet makes an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Add:  make(map[Date]Props),
		Meta: make(map[Date]*DateMeta),
	}
}

// AddDay schedules date to be added as the special day described by
// props.
//
// Fails with DuplicateAdd if the date is already scheduled to be
// added, under any day type.  On any failure the changeset is
// unchanged.
func (cs *ChangeSet) AddDay(date Date, props Props) error {
	if props == nil {
		return &BadShape{Reason: "nil props"}
	}
	if err := props.Validate(); err != nil {
		return err
	}
	if _, have := cs.Add[date]; have {
		return &DuplicateAdd{Date: date}
	}

	if cs.Add == nil {
		cs.Add = make(map[Date]Props)
	}
	cs.Add[date] = props

	if err := cs.Validate(); err != nil {
		delete(cs.Add, date)
		return err
	}

	cs.Canonicalize()
	return nil
}

// RemoveDay schedules date to be removed from the calendar.
//
// Removing the same date twice is fine: canonicalization collapses
// the duplicates.
func (cs *ChangeSet) RemoveDay(date Date) error {
	cs.Remove = append(cs.Remove, date)

	if err := cs.Validate(); err != nil {
		cs.Remove = cs.Remove[:len(cs.Remove)-1]
		return err
	}

	cs.Canonicalize()
	return nil
}

// SetTags sets the tags for date, replacing any previous tags.  The
// tags are stored sorted and de-duplicated.  With nil or empty tags,
// and no comment set for the date, the date's metadata is dropped
// entirely.
func (cs *ChangeSet) SetTags(date Date, tags []string) {
	m, have := cs.Meta[date]
	if !have {
		m = &DateMeta{}
	}
	m.Tags = dedupTags(tags)
	cs.storeMeta(date, m)
}

// SetComment sets the comment for date, replacing any previous
// comment.  The comment is trimmed; an empty or all-whitespace
// comment, with no tags set for the date, drops the date's metadata
// entirely.
func (cs *ChangeSet) SetComment(date Date, comment string) {
	m, have := cs.Meta[date]
	if !have {
		m = &DateMeta{}
	}
	m.Comment = comment
	m.Canonicalize()
	cs.storeMeta(date, m)
}

// SetMeta replaces the metadata for date with a copy of meta in
// canonical form.  Nil or empty metadata drops the date from Meta.
func (cs *ChangeSet) SetMeta(date Date, meta *DateMeta) {
	if meta == nil {
		meta = &DateMeta{}
	}
	m := meta.Copy()
	m.Canonicalize()
	cs.storeMeta(date, m)
}

// storeMeta stores or purges a metadata record, so that an empty
// record never survives in Meta.
func (cs *ChangeSet) storeMeta(date Date, m *DateMeta) {
	if m.Len() == 0 {
		delete(cs.Meta, date)
		return
	}
	if cs.Meta == nil {
		cs.Meta = make(map[Date]*DateMeta)
	}
	cs.Meta[date] = m
}

// ClearDay drops date from the days to add and the days to remove,
// and, with includeMeta, also drops its metadata.
//
// ClearDay only deletes, so it cannot make the changeset inconsistent
// and never fails.
func (cs *ChangeSet) ClearDay(date Date, includeMeta bool) {
	delete(cs.Add, date)

	acc := cs.Remove[:0]
	for _, d := range cs.Remove {
		if d != date {
			acc = append(acc, d)
		}
	}
	cs.Remove = acc

	if includeMeta {
		delete(cs.Meta, date)
	}
}

// Clear drops all days to add and remove and, with includeMeta, all
// metadata.
func (cs *ChangeSet) Clear(includeMeta bool) {
	cs.Add = make(map[Date]Props)
	cs.Remove = nil
	if includeMeta {
		cs.Meta = make(map[Date]*DateMeta)
	}
}

// AllDays returns the sorted union of the dates to add and the dates
// to remove and, with includeMeta, the dates with metadata.
func (cs *ChangeSet) AllDays(includeMeta bool) []Date {
	seen := make(map[Date]bool, len(cs.Add)+len(cs.Remove))
	for d := range cs.Add {
		seen[d] = true
	}
	for _, d := range cs.Remove {
		seen[d] = true
	}
	if includeMeta {
		for d := range cs.Meta {
			seen[d] = true
		}
	}
	acc := make([]Date, 0, len(seen))
	for d := range seen {
		acc = append(acc, d)
	}
	sortDates(acc)
	return acc
}

// Len is the total number of entries: days to add plus days to
// remove plus dates with metadata.
func (cs *ChangeSet) Len() int {
	return len(cs.Add) + len(cs.Remove) + len(cs.Meta)
}

// Equal reports whether the two changesets have the same additions,
// removals, and metadata.
func (cs *ChangeSet) Equal(o *ChangeSet) bool {
	if cs == nil || o == nil {
		return cs == o
	}
	if len(cs.Add) != len(o.Add) || len(cs.Remove) != len(o.Remove) || len(cs.Meta) != len(o.Meta) {
		return false
	}
	for d, p := range cs.Add {
		if o.Add[d] != p {
			return false
		}
	}
	for i, d := range cs.Remove {
		if o.Remove[i] != d {
			return false
		}
	}
	for d, m := range cs.Meta {
		if !m.Equal(o.Meta[d]) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy.
func (cs *ChangeSet) Copy() *ChangeSet {
	acc := NewChangeSet()
	for d, p := range cs.Add {
		acc.Add[d] = p
	}
	if cs.Remove != nil {
		acc.Remove = make([]Date, len(cs.Remove))
		copy(acc.Remove, cs.Remove)
	}
	for d, m := range cs.Meta {
		acc.Meta[d] = m.Copy()
	}
	return acc
}

// Validate checks the whole changeset: every Props must match its
// day type's shape, and no metadata record may be empty.
//
// Cross-category add conflicts need no check here: Add is keyed by
// date, so a date can't be added twice.
func (cs *ChangeSet) Validate() error {
	for d, p := range cs.Add {
		if p == nil {
			return &BadShape{Reason: "nil props for " + d.String()}
		}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for d, m := range cs.Meta {
		if m == nil || m.Len() == 0 {
			return &BadMeta{Reason: "empty metadata for " + d.String()}
		}
	}
	return nil
}

// Canonicalize puts the changeset into canonical form: removals
// sorted and de-duplicated, metadata records canonical with empty
// ones purged.  Every successful mutation runs this; calling it again
// is a no-op.
func (cs *ChangeSet) Canonicalize() {
	cs.Remove = dedupDates(cs.Remove)
	for d, m := range cs.Meta {
		if m == nil {
			delete(cs.Meta, d)
			continue
		}
		m.Canonicalize()
		if m.Len() == 0 {
			delete(cs.Meta, d)
		}
	}
}

// Dates returns the days to add, ascending.
func (cs *ChangeSet) Dates() []Date {
	acc := make([]Date, 0, len(cs.Add))
	for d := range cs.Add {
		acc = append(acc, d)
	}
	sortDates(acc)
	return acc
}

// MetaDates returns the dates with metadata, ascending.
func (cs *ChangeSet) MetaDates() []Date {
	acc := make([]Date, 0, len(cs.Meta))
	for d := range cs.Meta {
		acc = append(acc, d)
	}
	sortDates(acc)
	return acc
}

// DatesByType returns the days to add for one day type, ascending.
func (cs *ChangeSet) DatesByType(t DayType) []Date {
	acc := make([]Date, 0, len(cs.Add))
	for d, p := range cs.Add {
		if p.Kind() == t {
			acc = append(acc, d)
		}
	}
	sortDates(acc)
	return acc
}
