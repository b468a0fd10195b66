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

package main

import (
	"testing"
	"time"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
	"github.com/jenskeiner/exchange-calendars-extensions-api/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	r := registry.New()

	if err := r.Update("XNYS", func(cs *changes.ChangeSet) error {
		return cs.AddDay(changes.Date{Year: 2020, Month: time.July, Day: 4}, changes.DayProps{
			Type: changes.Holiday,
			Name: "Independence Day",
		})
	}); err != nil {
		t.Fatal(err)
	}

	if err := r.Update("XLON", func(cs *changes.ChangeSet) error {
		return cs.RemoveDay(changes.Date{Year: 2020, Month: time.May, Day: 8})
	}); err != nil {
		t.Fatal(err)
	}

	return r
}

func TestFilter(t *testing.T) {
	r := testRegistry(t)

	kept, err := Filter(r, `function (exchange, cs) { return "remove" in cs }`)
	if err != nil {
		t.Fatal(err)
	}

	if kept.Len() != 1 {
		t.Fatal(kept.Len())
	}
	if !kept.Contains("XLON") {
		t.Fatal("lost XLON")
	}
}

func TestFilterByName(t *testing.T) {
	r := testRegistry(t)

	kept, err := Filter(r, `function (exchange, cs) { return exchange == "XNYS" }`)
	if err != nil {
		t.Fatal(err)
	}

	if !kept.Contains("XNYS") || kept.Contains("XLON") {
		t.Fatal(kept.Names())
	}
}

func TestFilterNotAFunction(t *testing.T) {
	if _, err := Filter(testRegistry(t), `42`); err == nil {
		t.Fatal("expected an error")
	}
}

func TestFilterThrows(t *testing.T) {
	if _, err := Filter(testRegistry(t), `function () { throw "homework" }`); err == nil {
		t.Fatal("expected an error")
	}
}
