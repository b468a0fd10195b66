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
	"time"
)

// Props describes a special day to add to a calendar.
//
// A Props value is one of exactly two shapes, discriminated by day
// type: DayProps for day types without a session time (holidays and
// expiries), and DayPropsWithTime for day types with one (special
// opens and closes).  A holiday carrying a time is not representable.
//
// Both shapes are comparable values, so Props values can be compared
// with == and used in maps.
type Props interface {
	// Kind gives the day type.
	Kind() DayType

	// DayName gives the name of the special day.
	DayName() string

	// Validate checks the shape against its day type.
	Validate() error
}

// DayProps describes a holiday, monthly expiry, or quarterly expiry.
type DayProps struct {
	// Type must be Holiday, MonthlyExpiry, or QuarterlyExpiry.
	Type DayType `json:"type" yaml:"type"`

	// Name is the name of the day ("Christmas Day").
	Name string `json:"name" yaml:"name"`
}

func (p DayProps) Kind() DayType { return p.Type }

func (p DayProps) DayName() string { return p.Name }

// Validate checks that the day type is legal and does not require a
// session time.
func (p DayProps) Validate() error {
	if err := p.Type.Validate(); err != nil {
		return err
	}
	if p.Type.HasTime() {
		return &BadShape{
			DayType: p.Type,
			Reason:  "missing required field \"time\"",
		}
	}
	return nil
}

func (p DayProps) String() string {
	return fmt.Sprintf(`{type=%s, name=%q}`, p.Type, p.Name)
}

// DayPropsWithTime describes a special open or special close session.
type DayPropsWithTime struct {
	// Type must be SpecialOpen or SpecialClose.
	Type DayType `json:"type" yaml:"type"`

	// Name is the name of the day ("New Year's Eve").
	Name string `json:"name" yaml:"name"`

	// Time is the special open or close time of the session.
	Time TimeOfDay `json:"time" yaml:"time"`
}

func (p DayPropsWithTime) Kind() DayType { return p.Type }

func (p DayPropsWithTime) DayName() string { return p.Name }

// Validate checks that the day type is legal and requires a session
// time.
func (p DayPropsWithTime) Validate() error {
	if err := p.Type.Validate(); err != nil {
		return err
	}
	if !p.Type.HasTime() {
		return &BadShape{
			DayType: p.Type,
			Reason:  "field \"time\" not allowed",
		}
	}
	return nil
}

func (p DayPropsWithTime) String() string {
	return fmt.Sprintf(`{type=%s, name=%q, time=%s}`, p.Type, p.Name, p.Time)
}

// ParseProps builds a Props from its plain-map shape, strictly.
func ParseProps(m map[string]interface{}) (Props, error) {
	return propsFromMap(m)
}

// PropsToMap renders p in the plain-map shape that ParseProps
// accepts.
func PropsToMap(p Props) map[string]interface{} {
	return propsToMap(p)
}

// propsFromMap builds a Props from a plain map, rejecting unknown
// keys, a missing name, and a time that the day type doesn't call
// for.  This is the single strict decoding path for both JSON and
// YAML input.
func propsFromMap(m map[string]interface{}) (Props, error) {
	raw, has := m["type"]
	if !has {
		return nil, &BadShape{Reason: "missing required field \"type\""}
	}
	s, is := asDayTypeString(raw)
	if !is {
		return nil, &BadShape{Reason: fmt.Sprintf("field \"type\" has bad value %v", raw)}
	}
	t, err := ParseDayType(s)
	if err != nil {
		return nil, err
	}

	name, has := m["name"]
	if !has {
		return nil, &BadShape{DayType: t, Reason: "missing required field \"name\""}
	}
	nameStr, is := name.(string)
	if !is {
		return nil, &BadShape{DayType: t, Reason: fmt.Sprintf("field \"name\" has bad value %v", name)}
	}

	want := map[string]bool{"type": true, "name": true}
	if t.HasTime() {
		want["time"] = true
	}
	for k := range m {
		if !want[k] {
			return nil, &BadShape{DayType: t, Reason: fmt.Sprintf("unknown field %q", k)}
		}
	}

	if !t.HasTime() {
		return DayProps{Type: t, Name: nameStr}, nil
	}

	raw, has = m["time"]
	if !has {
		return nil, &BadShape{DayType: t, Reason: "missing required field \"time\""}
	}
	tod, err := asTimeOfDay(raw)
	if err != nil {
		return nil, err
	}
	return DayPropsWithTime{Type: t, Name: nameStr, Time: tod}, nil
}

// asDayTypeString accepts either a plain string or a DayType, so
// maps built in Go with DayType values decode too.
func asDayTypeString(x interface{}) (string, bool) {
	switch v := x.(type) {
	case string:
		return v, true
	case DayType:
		return string(v), true
	}
	return "", false
}

// asTimeOfDay accepts a "HH:MM" or "HH:MM:SS" string, a TimeOfDay,
// or a time.Time.
func asTimeOfDay(x interface{}) (TimeOfDay, error) {
	switch v := x.(type) {
	case string:
		return ParseTimeOfDay(v)
	case TimeOfDay:
		return v, nil
	case time.Time:
		return TimeOfDayOf(v), nil
	}
	return TimeOfDay{}, &BadTime{Value: x}
}

// propsToMap renders p in the plain-map shape that propsFromMap
// accepts.
func propsToMap(p Props) map[string]interface{} {
	m := map[string]interface{}{
		"type": string(p.Kind()),
		"name": p.DayName(),
	}
	if pt, is := p.(DayPropsWithTime); is {
		m["time"] = pt.Time.String()
	}
	return m
}
