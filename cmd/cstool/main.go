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

// cstool is a grab bag of command-line utilities for working with
// changeset files.
//
// Most subcommands read a changeset from stdin (YAML or JSON,
// guessed from the first byte) and write to stdout.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
	"github.com/jenskeiner/exchange-calendars-extensions-api/csio"
	"github.com/jenskeiner/exchange-calendars-extensions-api/registry"
	"github.com/jenskeiner/exchange-calendars-extensions-api/tools"

	"github.com/jsccast/yaml"
)

func main() {

	if len(os.Args) < 2 {
		Usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "yamltojson":
		pretty := false

		switch len(os.Args) {
		case 2:
		case 3:
			switch os.Args[2] {
			case "-p":
				pretty = true
			default:
				panic(fmt.Sprintf("unsupported args: %v", os.Args[1:]))
			}
		default:
			panic(fmt.Sprintf("unsupported args: %v", os.Args[1:]))
		}

		cs, err := csio.ParseChangeSet(slurp(), true)
		if err != nil {
			fatal(err)
		}

		var bs []byte
		if pretty {
			bs, err = json.MarshalIndent(cs, "", "  ")
		} else {
			bs, err = json.Marshal(cs)
		}
		if err != nil {
			fatal(err)
		}

		emit(bs)

	case "jsontoyaml":
		cs, err := csio.ParseChangeSet(slurp(), false)
		if err != nil {
			fatal(err)
		}

		bs, err := yaml.Marshal(cs.ToMap())
		if err != nil {
			fatal(err)
		}

		emit(bs)

	case "validate":
		cs, err := parseAuto(slurp())
		if err != nil {
			fatal(err)
		}

		fmt.Printf("ok: %d changes\n", cs.Len())

	case "alldays":
		includeMeta := false
		if 2 < len(os.Args) && os.Args[2] == "-meta" {
			includeMeta = true
		}

		cs, err := parseAuto(slurp())
		if err != nil {
			fatal(err)
		}

		for _, d := range cs.AllDays(includeMeta) {
			fmt.Printf("%s\n", d)
		}

	case "render":
		exchange := "changes"
		if 2 < len(os.Args) {
			exchange = os.Args[2]
		}

		cs, err := parseAuto(slurp())
		if err != nil {
			fatal(err)
		}

		if err = tools.RenderChangesPage(exchange, cs, os.Stdout, nil); err != nil {
			fatal(err)
		}

	case "mermaid":
		title := ""
		if 2 < len(os.Args) {
			title = os.Args[2]
		}

		cs, err := parseAuto(slurp())
		if err != nil {
			fatal(err)
		}

		if err = tools.Mermaid(cs, os.Stdout, &tools.MermaidOpts{
			Title:    title,
			ShowMeta: true,
		}); err != nil {
			fatal(err)
		}

	case "filter":
		if len(os.Args) < 3 {
			fatal(fmt.Errorf("filter needs a Javascript predicate"))
		}

		r, err := parseRegistryAuto(slurp())
		if err != nil {
			fatal(err)
		}

		if r, err = Filter(r, os.Args[2]); err != nil {
			fatal(err)
		}

		bs, err := json.Marshal(r)
		if err != nil {
			fatal(err)
		}

		emit(bs)

	default:
		fmt.Printf("Unknown subcommand \"%s\"\n", os.Args[1])
		Usage()
		os.Exit(1)
	}
}

func Usage() {
	fmt.Printf("Subcommands:\n\n")
	fmt.Printf("  yamltojson [-p]   changeset YAML on stdin to JSON (-p: pretty-print)\n")
	fmt.Printf("  jsontoyaml        changeset JSON on stdin to YAML\n")
	fmt.Printf("  validate          parse a changeset and report its size\n")
	fmt.Printf("  alldays [-meta]   print the affected days in order\n")
	fmt.Printf("  render [TITLE]    render a changeset as an HTML page\n")
	fmt.Printf("  mermaid [TITLE]   render a changeset as a Mermaid timeline\n")
	fmt.Printf("  filter JS         keep registry entries for which JS returns true\n")
	fmt.Println()
}

func slurp() []byte {
	bs, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal(err)
	}
	return bs
}

func emit(bs []byte) {
	if _, err := os.Stdout.Write(bs); err != nil {
		fatal(err)
	}
	fmt.Println()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func looksLikeJSON(bs []byte) bool {
	bs = bytes.TrimSpace(bs)
	return 0 < len(bs) && (bs[0] == '{' || bs[0] == '[')
}

func parseAuto(bs []byte) (*changes.ChangeSet, error) {
	return csio.ParseChangeSet(bs, !looksLikeJSON(bs))
}

func parseRegistryAuto(bs []byte) (*registry.Registry, error) {
	return csio.ParseRegistry(bs, !looksLikeJSON(bs))
}
