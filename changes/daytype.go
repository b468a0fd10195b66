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

// DayType is the category of a special day.
//
// The categories are mutually exclusive.  A special open day, say,
// cannot also be a monthly expiry, even though both are business
// days.
type DayType string

const (
	// Holiday is a full-day closure.
	Holiday DayType = "holiday"

	// SpecialOpen is a session with a special opening time.
	SpecialOpen DayType = "special_open"

	// SpecialClose is a session with a special closing time.
	SpecialClose DayType = "special_close"

	// MonthlyExpiry is a monthly derivatives expiry day.
	MonthlyExpiry DayType = "monthly_expiry"

	// QuarterlyExpiry is a quarterly derivatives expiry day.
	QuarterlyExpiry DayType = "quarterly_expiry"
)

// DayTypes lists all legal day types.
var DayTypes = []DayType{
	Holiday,
	SpecialOpen,
	SpecialClose,
	MonthlyExpiry,
	QuarterlyExpiry,
}

// ParseDayType returns the DayType for the given string
// representation, or a BadDayType error.
func ParseDayType(s string) (DayType, error) {
	t := DayType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate reports whether the DayType is one of the five legal
// categories.
func (t DayType) Validate() error {
	switch t {
	case Holiday, SpecialOpen, SpecialClose, MonthlyExpiry, QuarterlyExpiry:
		return nil
	}
	return &BadDayType{Value: string(t)}
}

// HasTime reports whether special days of this type carry a session
// time.
func (t DayType) HasTime() bool {
	return t == SpecialOpen || t == SpecialClose
}

func (t DayType) String() string {
	return string(t)
}
