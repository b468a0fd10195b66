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
	"encoding/json"
	"fmt"
	"log"

	"github.com/jenskeiner/exchange-calendars-extensions-api/registry"

	"github.com/dop251/goja"
)

// Filter evaluates the Javascript predicate src against each
// registry entry and returns a registry containing only the entries
// for which the predicate was true.
//
// src must be a function of two arguments: the exchange name and the
// changeset rendered as a plain map.  For example:
//
//	function (exchange, cs) { return "remove" in cs }
func Filter(r *registry.Registry, src string) (*registry.Registry, error) {
	js := goja.New()

	env := make(map[string]interface{})
	js.Set("_", env)

	env["log"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		bs, err := json.Marshal(&x)
		if err != nil {
			return err
		}
		log.Printf("%s\n", bs)

		return x
	}

	v, err := js.RunString("(" + src + ")")
	if err != nil {
		return nil, err
	}

	pred, is := goja.AssertFunction(v)
	if !is {
		return nil, fmt.Errorf("predicate is not a function")
	}

	kept := registry.New()
	for _, exchange := range r.Names() {
		cs, _ := r.Get(exchange)

		got, err := pred(goja.Undefined(), js.ToValue(exchange), js.ToValue(cs.ToMap()))
		if err != nil {
			return nil, err
		}

		if got.ToBoolean() {
			kept.Set(exchange, cs.Copy())
		}
	}

	return kept, nil
}
