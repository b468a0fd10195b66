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

package tools

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
)

func sampleChangeSet(t *testing.T) *changes.ChangeSet {
	cs := changes.NewChangeSet()
	if err := cs.AddDay(changes.Date{Year: 2020, Month: time.January, Day: 1}, changes.DayProps{
		Type: changes.Holiday,
		Name: "New Year's Day",
	}); err != nil {
		t.Fatal(err)
	}
	if err := cs.AddDay(changes.Date{Year: 2020, Month: time.February, Day: 3}, changes.DayPropsWithTime{
		Type: changes.SpecialClose,
		Name: "Early Close",
		Time: changes.TimeOfDay{Hour: 13},
	}); err != nil {
		t.Fatal(err)
	}
	if err := cs.RemoveDay(changes.Date{Year: 2020, Month: time.March, Day: 4}); err != nil {
		t.Fatal(err)
	}
	cs.SetTags(changes.Date{Year: 2020, Month: time.January, Day: 1}, []string{"confirmed"})
	cs.SetComment(changes.Date{Year: 2020, Month: time.January, Day: 1}, "See the *official* notice.")
	return cs
}

func TestRenderChangesHTML(t *testing.T) {
	out := bytes.NewBuffer(nil)

	if err := RenderChangesHTML(sampleChangeSet(t), out); err != nil {
		t.Fatal(err)
	}

	s := out.String()
	for _, want := range []string{
		"New Year&#39;s Day",
		"2020-02-03",
		"13:00:00",
		"2020-03-04",
		"confirmed",
		"<em>official</em>",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in\n%s", want, s)
		}
	}
}

func TestRenderChangesPage(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "xnys.yaml")

	y := `
add:
  2020-01-01:
    type: holiday
    name: "New Year's Day"
remove:
  - 2020-03-04
`
	if err := os.WriteFile(filename, []byte(y), 0644); err != nil {
		t.Fatal(err)
	}

	out := bytes.NewBuffer(make([]byte, 0, 1024*8))

	if err := ReadAndRenderChangesPage(filename, []string{"changes.css"}, out); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "2020-01-01") {
		t.Fatal("lost the holiday")
	}
}

func TestMermaid(t *testing.T) {
	out := bytes.NewBuffer(nil)

	if err := Mermaid(sampleChangeSet(t), out, &MermaidOpts{
		Title:    "XNYS",
		ShowMeta: true,
	}); err != nil {
		t.Fatal(err)
	}

	s := out.String()
	for _, want := range []string{
		"timeline",
		"section holiday",
		"section special_close",
		"section removed",
		"section meta",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in\n%s", want, s)
		}
	}
}
