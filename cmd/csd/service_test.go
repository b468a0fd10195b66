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
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
)

func testService(ctx context.Context, t *testing.T) *Service {
	dbFile := filepath.Join(t.TempDir(), "test.db")

	s, err := NewService(ctx, dbFile)
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func do(ctx context.Context, t *testing.T, s *Service, js string) *SOp {
	var op SOp
	if err := json.Unmarshal([]byte(js), &op); err != nil {
		t.Fatal(err)
	}
	if err := op.Do(ctx, s); err != nil {
		t.Fatal(err)
	}
	return &op
}

func TestServiceBasic(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testService(ctx, t)

	do(ctx, t, s, `{"exchange":"XNYS","add":{"date":"2020-07-04","props":{"type":"holiday","name":"Independence Day"}}}`)
	do(ctx, t, s, `{"exchange":"XNYS","remove":{"date":"2020-12-26"}}`)
	do(ctx, t, s, `{"exchange":"XNYS","setTags":{"date":"2020-07-04","tags":["confirmed"]}}`)
	do(ctx, t, s, `{"exchange":"XNYS","setComment":{"date":"2020-07-04","comment":"added by hand"}}`)

	op := do(ctx, t, s, `{"exchange":"XNYS","get":{}}`)
	if op.Get.ChangeSet == nil {
		t.Fatal("no changeset")
	}
	// One addition, one removal, one date with metadata.
	if got := op.Get.ChangeSet.Len(); got != 3 {
		t.Fatal(got)
	}

	op = do(ctx, t, s, `{"exchanges":{}}`)
	if len(op.Exchanges.Names) != 1 || op.Exchanges.Names[0] != "XNYS" {
		t.Fatal(op.Exchanges.Names)
	}
}

func TestServicePersistence(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbFile := filepath.Join(t.TempDir(), "test.db")

	s, err := NewService(ctx, dbFile)
	if err != nil {
		t.Fatal(err)
	}

	do(ctx, t, s, `{"exchange":"XLON","add":{"date":"2020-05-08","props":{"type":"holiday","name":"VE Day"}}}`)

	if err := s.store.Close(ctx); err != nil {
		t.Fatal(err)
	}

	// Reopen and expect the changeset back.
	s, err = NewService(ctx, dbFile)
	if err != nil {
		t.Fatal(err)
	}

	op := do(ctx, t, s, `{"exchange":"XLON","get":{}}`)
	if op.Get.ChangeSet == nil || op.Get.ChangeSet.Len() != 1 {
		t.Fatal("lost the changeset")
	}

	if err := s.store.Close(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestServiceBadOps(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testService(ctx, t)

	for _, js := range []string{
		`{}`,
		`{"add":{"date":"2020-07-04","props":{"type":"holiday","name":"X"}}}`,
		`{"exchange":"XNYS","add":{"date":"bad","props":{"type":"holiday","name":"X"}}}`,
		`{"exchange":"XNYS","add":{"date":"2020-07-04","props":{"type":"nope","name":"X"}}}`,
		`{"exchange":"XNYS","get":{}}`,
		`{"exchange":"XNYS","rem":{}}`,
	} {
		var op SOp
		if err := json.Unmarshal([]byte(js), &op); err != nil {
			t.Fatal(err)
		}
		if err := op.Do(ctx, s); err == nil {
			t.Fatalf("wanted an error from %s", js)
		} else if op.Err == "" {
			t.Fatalf("wanted Err set for %s", js)
		}
	}
}

func TestServiceDuplicateAdd(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testService(ctx, t)

	do(ctx, t, s, `{"exchange":"XNYS","add":{"date":"2020-07-04","props":{"type":"holiday","name":"Independence Day"}}}`)

	var op SOp
	js := `{"exchange":"XNYS","add":{"date":"2020-07-04","props":{"type":"special_open","name":"Late Open","time":"10:00"}}}`
	if err := json.Unmarshal([]byte(js), &op); err != nil {
		t.Fatal(err)
	}
	if err := op.Do(ctx, s); err == nil {
		t.Fatal("wanted an error")
	}

	// First add wins.
	op2 := do(ctx, t, s, `{"exchange":"XNYS","get":{}}`)
	if got := op2.Get.ChangeSet.Len(); got != 1 {
		t.Fatal(got)
	}
}

func TestServiceRem(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testService(ctx, t)

	do(ctx, t, s, `{"exchange":"XNYS","add":{"date":"2020-07-04","props":{"type":"holiday","name":"Independence Day"}}}`)
	do(ctx, t, s, `{"exchange":"XNYS","rem":{}}`)

	op := do(ctx, t, s, `{"exchanges":{}}`)
	if len(op.Exchanges.Names) != 0 {
		t.Fatal(op.Exchanges.Names)
	}
}

func TestServiceClear(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testService(ctx, t)

	do(ctx, t, s, `{"exchange":"XNYS","add":{"date":"2020-07-04","props":{"type":"holiday","name":"Independence Day"}}}`)
	do(ctx, t, s, `{"exchange":"XNYS","setTags":{"date":"2020-07-04","tags":["confirmed"]}}`)
	do(ctx, t, s, `{"exchange":"XNYS","clear":{}}`)

	op := do(ctx, t, s, `{"exchange":"XNYS","get":{}}`)
	if got := op.Get.ChangeSet.Len(); got != 1 {
		// The tags survive a plain clear.
		t.Fatal(got)
	}

	do(ctx, t, s, `{"exchange":"XNYS","clear":{"meta":true}}`)

	op = do(ctx, t, s, `{"exchange":"XNYS","get":{}}`)
	if got := op.Get.ChangeSet.Len(); got != 0 {
		t.Fatal(got)
	}
}

func TestServiceFeeds(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testService(ctx, t)

	ops := s.feed()

	do(ctx, t, s, `{"exchange":"XNYS","add":{"date":"2020-07-04","props":{"type":"holiday","name":"Independence Day"}}}`)

	x := <-ops
	m, is := x.(map[string]interface{})
	if !is {
		t.Fatalf("%#v", x)
	}
	if _, have := m["did"]; !have {
		t.Fatalf("%#v", m)
	}
}
