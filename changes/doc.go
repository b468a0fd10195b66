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

// Package changes provides the changeset model for edits to an
// exchange's trading calendar.
//
// A ChangeSet describes dates to add as special days (holidays,
// special open/close sessions, monthly and quarterly expiries), dates
// to remove, and free-form per-date metadata (tags and a comment).
//
// The primary type is ChangeSet, and the primary methods are AddDay,
// RemoveDay, SetTags, ClearDay, and Clear.  Every mutation either
// fully succeeds, leaving the changeset in canonical form (additions
// and metadata iterated in ascending date order, removals sorted and
// de-duplicated, empty metadata records purged), or fully fails,
// leaving the changeset exactly as it was.
//
// A ChangeSet is consistent by construction: the additions are keyed
// by date, so no date can be added under two different day types.
// Removals carry no day type at all; removing a date that a calendar
// doesn't hold as a special day is a no-op when the changeset is
// eventually applied, so duplicate removals are harmless and simply
// collapse.
//
// A consistent changeset can still conflict with a particular
// calendar: the calendar may already categorize an added date under
// some other day type.  Resolving that is the applier's job, not this
// package's.  The recommended protocol is an upsert: before adding
// date d under day type t, remove d from every other day type the
// calendar holds it under.  See the ChangeSet documentation.
//
// This package does not apply changesets to calendars, compute
// calendar sessions, or deal in time zones.  Dates are calendar days;
// times are naive wall-clock times.
package changes
