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
	"testing"
	"time"
)

func TestParseDayType(t *testing.T) {
	for _, s := range []string{"holiday", "special_open", "special_close", "monthly_expiry", "quarterly_expiry"} {
		got, err := ParseDayType(s)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != s {
			t.Fatalf("got %s, wanted %s", got, s)
		}
	}

	if _, err := ParseDayType("foo"); err == nil {
		t.Fatal("should have failed")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	for _, c := range []struct {
		in   string
		want TimeOfDay
	}{
		{"10:00", TimeOfDay{10, 0, 0}},
		{"10:00:30", TimeOfDay{10, 0, 30}},
		{"00:00", TimeOfDay{}},
		{"23:59:59", TimeOfDay{23, 59, 59}},
	} {
		got, err := ParseTimeOfDay(c.in)
		if err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%s: got %v, wanted %v", c.in, got, c.want)
		}
	}

	for _, in := range []string{"", "25:00", "10:61", "10", "10:00:00:00", "foo"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Fatalf("ParseTimeOfDay(%q) should have failed", in)
		}
	}
}

func TestPropsFromMap(t *testing.T) {
	for _, c := range []struct {
		m    map[string]interface{}
		want Props
	}{
		{
			m:    map[string]interface{}{"type": "holiday", "name": "Holiday"},
			want: DayProps{Type: Holiday, Name: "Holiday"},
		},
		{
			m:    map[string]interface{}{"type": "monthly_expiry", "name": "Monthly Expiry"},
			want: DayProps{Type: MonthlyExpiry, Name: "Monthly Expiry"},
		},
		{
			m:    map[string]interface{}{"type": "quarterly_expiry", "name": "Quarterly Expiry"},
			want: DayProps{Type: QuarterlyExpiry, Name: "Quarterly Expiry"},
		},
		{
			m:    map[string]interface{}{"type": "special_open", "name": "Special Open", "time": "10:00"},
			want: DayPropsWithTime{Type: SpecialOpen, Name: "Special Open", Time: TimeOfDay{10, 0, 0}},
		},
		{
			m:    map[string]interface{}{"type": "special_close", "name": "Special Close", "time": "16:00:30"},
			want: DayPropsWithTime{Type: SpecialClose, Name: "Special Close", Time: TimeOfDay{16, 0, 30}},
		},
		{
			// Native values work, too.
			m:    map[string]interface{}{"type": SpecialOpen, "name": "Special Open", "time": TimeOfDay{10, 0, 0}},
			want: DayPropsWithTime{Type: SpecialOpen, Name: "Special Open", Time: TimeOfDay{10, 0, 0}},
		},
		{
			m:    map[string]interface{}{"type": "special_close", "name": "Special Close", "time": time.Date(1, 1, 1, 16, 0, 0, 0, time.UTC)},
			want: DayPropsWithTime{Type: SpecialClose, Name: "Special Close", Time: TimeOfDay{16, 0, 0}},
		},
	} {
		got, err := propsFromMap(c.m)
		if err != nil {
			t.Fatalf("%v: %v", c.m, err)
		}
		if got != c.want {
			t.Fatalf("%v: got %v, wanted %v", c.m, got, c.want)
		}
	}
}

func TestPropsFromMapBad(t *testing.T) {
	for _, m := range []map[string]interface{}{
		// Bad day type.
		{"type": "foo", "name": "Holiday"},
		{"type": 1, "name": "Holiday"},
		// Missing fields.
		{"name": "Holiday"},
		{"type": "holiday"},
		{"type": "special_open", "name": "Special Open"},
		// Extra fields.
		{"type": "holiday", "name": "Holiday", "foo": "bar"},
		{"type": "holiday", "name": "Holiday", "time": "10:00"},
		{"type": "special_open", "name": "Special Open", "time": "10:00", "foo": "bar"},
		// Wrong field types.
		{"type": "holiday", "name": 1},
		{"type": "special_open", "name": "Special Open", "time": "foo"},
		{"type": "special_open", "name": "Special Open", "time": 10},
	} {
		if _, err := propsFromMap(m); err == nil {
			t.Fatalf("propsFromMap(%v) should have failed", m)
		}
	}
}

func TestPropsValidate(t *testing.T) {
	if err := (DayProps{Type: Holiday, Name: "Holiday"}).Validate(); err != nil {
		t.Fatal(err)
	}
	if err := (DayPropsWithTime{Type: SpecialOpen, Name: "SO", Time: TimeOfDay{10, 0, 0}}).Validate(); err != nil {
		t.Fatal(err)
	}

	// A holiday with a time is not representable, but the wrong
	// shape for a day type is caught.
	if err := (DayProps{Type: SpecialOpen, Name: "SO"}).Validate(); err == nil {
		t.Fatal("should have failed")
	}
	if err := (DayPropsWithTime{Type: Holiday, Name: "Holiday", Time: TimeOfDay{10, 0, 0}}).Validate(); err == nil {
		t.Fatal("should have failed")
	}
}
