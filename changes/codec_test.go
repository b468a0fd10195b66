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
	"testing"
)

func TestFromMap(t *testing.T) {
	cs, err := FromMap(map[string]interface{}{
		"add": map[string]interface{}{
			"2020-01-01": map[string]interface{}{"type": "holiday", "name": "H"},
			"2020-02-01": map[string]interface{}{"type": "special_open", "name": "SO", "time": "10:00"},
		},
		"remove": []interface{}{"2020-01-02", "2020-01-02", "2020-01-03"},
		"meta": map[string]interface{}{
			"2020-01-01": map[string]interface{}{"tags": []interface{}{"b", "a", "a"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if cs.Len() != 5 {
		t.Fatalf("got len %d", cs.Len())
	}
	if got := cs.Add[mustDate(t, "2020-01-01")]; got != (DayProps{Type: Holiday, Name: "H"}) {
		t.Fatalf("got %v", got)
	}
	if got := cs.Add[mustDate(t, "2020-02-01")]; got != (DayPropsWithTime{Type: SpecialOpen, Name: "SO", Time: TimeOfDay{10, 0, 0}}) {
		t.Fatalf("got %v", got)
	}
	if len(cs.Remove) != 2 {
		t.Fatalf("got remove %v", cs.Remove)
	}
	m := cs.Meta[mustDate(t, "2020-01-01")]
	if len(m.Tags) != 2 || m.Tags[0] != "a" || m.Tags[1] != "b" {
		t.Fatalf("got tags %v", m.Tags)
	}
}

func TestFromMapEquivalentToOps(t *testing.T) {
	parsed, err := FromMap(map[string]interface{}{
		"add": map[string]interface{}{
			"2020-01-01": map[string]interface{}{"type": "holiday", "name": "Holiday"},
		},
		"remove": []interface{}{"2020-01-02"},
		"meta": map[string]interface{}{
			"2020-01-01": map[string]interface{}{"tags": []interface{}{"foo", "bar"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	built := NewChangeSet()
	if err := built.AddDay(mustDate(t, "2020-01-01"), DayProps{Type: Holiday, Name: "Holiday"}); err != nil {
		t.Fatal(err)
	}
	if err := built.RemoveDay(mustDate(t, "2020-01-02")); err != nil {
		t.Fatal(err)
	}
	built.SetTags(mustDate(t, "2020-01-01"), []string{"foo", "bar"})

	if !parsed.Equal(built) {
		t.Fatalf("parsed %v != built %v", parsed, built)
	}
}

func TestFromMapBad(t *testing.T) {
	for _, m := range []map[string]interface{}{
		// Unknown top-level key.
		{"foo": map[string]interface{}{}},
		{"tags": map[string]interface{}{"2020-01-01": []interface{}{"foo"}}},
		// Bad day type.
		{"add": map[string]interface{}{"2020-01-01": map[string]interface{}{"type": "foo", "name": "H"}}},
		// Bad date.
		{"add": map[string]interface{}{"foo": map[string]interface{}{"type": "holiday", "name": "H"}}},
		{"remove": []interface{}{"2020-01-01", "foo"}},
		{"meta": map[string]interface{}{"foo": map[string]interface{}{"tags": []interface{}{"a"}}}},
		// Bad props shapes.
		{"add": map[string]interface{}{"2020-01-01": map[string]interface{}{"type": "holiday", "foo": "H"}}},
		{"add": map[string]interface{}{"2020-01-01": map[string]interface{}{"type": "holiday", "name": "H", "time": "10:00"}}},
		{"add": map[string]interface{}{"2020-01-01": map[string]interface{}{"type": "holiday", "name": "H", "foo": "bar"}}},
		{"add": map[string]interface{}{"2020-01-01": map[string]interface{}{"type": "special_open", "name": "SO"}}},
		{"add": map[string]interface{}{"2020-01-01": map[string]interface{}{"type": "special_open", "name": "SO", "foo": "10:00"}}},
		// Bad meta.
		{"meta": map[string]interface{}{"2020-01-01": map[string]interface{}{"tags": []interface{}{"a", 1}}}},
		// Wrong collection shapes.
		{"add": []interface{}{"2020-01-01"}},
		{"remove": map[string]interface{}{"2020-01-01": true}},
		{"meta": []interface{}{"2020-01-01"}},
	} {
		if _, err := FromMap(m); err == nil {
			t.Fatalf("FromMap(%v) should have failed", m)
		}
	}
}

func TestToMapRoundTrip(t *testing.T) {
	cs := NewChangeSet()
	if err := cs.AddDay(mustDate(t, "2020-01-01"), DayProps{Type: Holiday, Name: "H"}); err != nil {
		t.Fatal(err)
	}
	if err := cs.AddDay(mustDate(t, "2020-02-01"), DayPropsWithTime{Type: SpecialClose, Name: "SC", Time: TimeOfDay{16, 0, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := cs.RemoveDay(mustDate(t, "2020-01-02")); err != nil {
		t.Fatal(err)
	}
	cs.SetTags(mustDate(t, "2020-01-03"), []string{"foo"})
	cs.SetComment(mustDate(t, "2020-01-03"), "hi")

	back, err := FromMap(cs.ToMap())
	if err != nil {
		t.Fatal(err)
	}
	if !cs.Equal(back) {
		t.Fatalf("round trip changed the changeset: %v vs %v", cs, back)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	js := `{"add":{"2020-01-01":{"name":"H","type":"holiday"},"2020-02-01":{"name":"SO","time":"10:00:00","type":"special_open"}},"remove":["2020-01-02"],"meta":{"2020-01-01":{"tags":["a","b"]}}}`

	cs, err := ParseJSON([]byte(js))
	if err != nil {
		t.Fatal(err)
	}

	bs, err := json.Marshal(cs)
	if err != nil {
		t.Fatal(err)
	}

	// Serialization is canonical, so a second round trip is
	// byte-for-byte stable.
	cs2, err := ParseJSON(bs)
	if err != nil {
		t.Fatal(err)
	}
	bs2, err := json.Marshal(cs2)
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != string(bs2) {
		t.Fatalf("not idempotent:\n%s\n%s", bs, bs2)
	}
	if !cs.Equal(cs2) {
		t.Fatal("round trip changed the changeset")
	}
}

func TestJSONOrdering(t *testing.T) {
	cs := NewChangeSet()
	for _, day := range []string{"2020-03-01", "2020-01-01", "2020-02-01"} {
		if err := cs.AddDay(mustDate(t, day), DayProps{Type: Holiday, Name: "H"}); err != nil {
			t.Fatal(err)
		}
	}
	for _, day := range []string{"2020-03-02", "2020-01-02"} {
		if err := cs.RemoveDay(mustDate(t, day)); err != nil {
			t.Fatal(err)
		}
	}

	bs, err := json.Marshal(cs)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"add":{"2020-01-01":{"type":"holiday","name":"H"},"2020-02-01":{"type":"holiday","name":"H"},"2020-03-01":{"type":"holiday","name":"H"}},"remove":["2020-01-02","2020-03-02"]}`
	if string(bs) != want {
		t.Fatalf("got  %s\nwant %s", bs, want)
	}
}

func TestUnmarshalStrict(t *testing.T) {
	for _, js := range []string{
		`{"foo":1}`,
		`{"add":{"2020-01-01":{"type":"holiday","name":"H","extra":true}}}`,
		`{"add":{"not-a-date":{"type":"holiday","name":"H"}}}`,
	} {
		var cs ChangeSet
		if err := json.Unmarshal([]byte(js), &cs); err == nil {
			t.Fatalf("unmarshal of %s should have failed", js)
		}
	}
}

func TestYAMLShapedInput(t *testing.T) {
	// YAML decoders hand over interface-keyed maps; FromMap takes
	// them too.
	cs, err := FromMap(map[string]interface{}{
		"add": map[interface{}]interface{}{
			"2020-01-01": map[interface{}]interface{}{"type": "holiday", "name": "H"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if cs.Len() != 1 {
		t.Fatalf("got len %d", cs.Len())
	}
}
