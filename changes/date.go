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
	"sort"
	"time"
)

// Date is a calendar date at day granularity.
//
// A Date is a comparable value, so it can serve as a map key.  Any
// richer point-in-time input is truncated to its calendar day before
// it becomes a Date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// dateLayouts are the textual forms ParseDate accepts.  Anything with
// a time component is truncated to the day.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ParseDate converts s to a Date.
//
// Accepted forms are ISO dates ("2020-01-01") and full timestamps,
// which are truncated to day granularity.
func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, &BadDate{Value: s}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns the date as a time.Time at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is earlier than e.
func (d Date) Before(e Date) bool {
	switch {
	case d.Year != e.Year:
		return d.Year < e.Year
	case d.Month != e.Month:
		return d.Month < e.Month
	default:
		return d.Day < e.Day
	}
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// MarshalText renders the date as "2006-01-02".  Via this method, a
// map keyed by Date serializes to JSON with its keys in ascending
// date order.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses any form that ParseDate accepts.
func (d *Date) UnmarshalText(bs []byte) error {
	parsed, err := ParseDate(string(bs))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// sortDates sorts ds ascending in place.
func sortDates(ds []Date) {
	sort.Slice(ds, func(i, j int) bool {
		return ds[i].Before(ds[j])
	})
}

// dedupDates returns ds sorted ascending with duplicates dropped.
func dedupDates(ds []Date) []Date {
	if ds == nil {
		return nil
	}
	sorted := make([]Date, len(ds))
	copy(sorted, ds)
	sortDates(sorted)
	acc := sorted[:0]
	for i, d := range sorted {
		if i == 0 || sorted[i-1] != d {
			acc = append(acc, d)
		}
	}
	return acc
}
