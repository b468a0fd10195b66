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

package csio

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetch(t *testing.T) {
	js := `{"add":{"2020-01-01":{"type":"holiday","name":"H"}}}`
	yml := "add:\n  \"2020-01-01\":\n    type: holiday\n    name: H\n"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cs.json":
			fmt.Fprint(w, js)
		case "/cs.yaml":
			w.Header().Set("Content-Type", "application/yaml")
			fmt.Fprint(w, yml)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	f := &Fetcher{}
	ctx := context.Background()

	for _, path := range []string{"/cs.json", "/cs.yaml"} {
		cs, err := f.Fetch(ctx, ts.URL+path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if cs.Len() != 1 {
			t.Fatalf("%s: got len %d", path, cs.Len())
		}
		if got := cs.Add[date(t, "2020-01-01")]; got.Kind() != "holiday" {
			t.Fatalf("%s: got %v", path, got)
		}
	}

	if _, err := f.Fetch(ctx, ts.URL+"/nope"); err == nil {
		t.Fatal("should have failed")
	}
}

func TestFetchRegistry(t *testing.T) {
	js := `{"XNYS":{"add":{"2020-01-01":{"type":"holiday","name":"H"}}},"XLON":{"remove":["2020-05-08"]}}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, js)
	}))
	defer ts.Close()

	f := &Fetcher{}

	r, err := f.FetchRegistry(context.Background(), ts.URL+"/registry.json")
	if err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 || !r.Contains("XNYS") || !r.Contains("XLON") {
		t.Fatal(r.Names())
	}
}
