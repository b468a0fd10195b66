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

// These errors are user errors, not internal errors.

import (
	"fmt"
)

// BadDayType occurs when a day type isn't one of the five legal
// categories.
type BadDayType struct {
	Value string
}

func (e *BadDayType) Error() string {
	return `bad day type "` + e.Value + `"`
}

// BadDate occurs when a date-like value cannot be converted to a
// Date.
type BadDate struct {
	Value interface{}
}

func (e *BadDate) Error() string {
	return fmt.Sprintf(`failed to convert %v to a date`, e.Value)
}

// BadTime occurs when a time-like value cannot be converted to a
// TimeOfDay.
type BadTime struct {
	Value interface{}
}

func (e *BadTime) Error() string {
	return fmt.Sprintf(`failed to convert %v to a time of day`, e.Value)
}

// BadShape occurs when input doesn't match the expected record shape:
// an unknown field, a missing field, or a field of the wrong type.
// Nothing is silently dropped or coerced.
type BadShape struct {
	// DayType, if known, is the day type the shape was decoded
	// for.
	DayType DayType

	Reason string
}

func (e *BadShape) Error() string {
	if e.DayType != "" {
		return fmt.Sprintf(`bad shape for day type "%s": %s`, e.DayType, e.Reason)
	}
	return "bad shape: " + e.Reason
}

// DuplicateAdd occurs when AddDay is called for a date that is
// already scheduled to be added.  A date can only be added under one
// day type within a changeset.
type DuplicateAdd struct {
	Date Date
}

func (e *DuplicateAdd) Error() string {
	return "day " + e.Date.String() + " already in days to add"
}

// BadMeta occurs when a date's metadata doesn't validate, for example
// a tag that isn't a string.
type BadMeta struct {
	Reason string
}

func (e *BadMeta) Error() string {
	return "bad metadata: " + e.Reason
}

// Inconsistent occurs when a whole-changeset validation fails after a
// structural change.  The change that triggered it has already been
// rolled back by the time the caller sees this error.
type Inconsistent struct {
	Reason string
}

func (e *Inconsistent) Error() string {
	return "inconsistent changeset: " + e.Reason
}
