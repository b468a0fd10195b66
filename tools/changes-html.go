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

// Package tools renders changesets for humans: HTML reports and
// Mermaid timelines.
package tools

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"

	md "github.com/russross/blackfriday/v2"
	"gopkg.in/yaml.v2"
)

// RenderChangesHTML writes an HTML fragment describing the
// changeset: one table of additions, one list of removals, one table
// of metadata.  Comments are Markdown.
func RenderChangesHTML(cs *changes.ChangeSet, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	if len(cs.Add) > 0 {
		f(`<div class="add"><table>`)
		f(`<tr><th>date</th><th>type</th><th>name</th><th>time</th></tr>`)
		for _, d := range cs.Dates() {
			p := cs.Add[d]
			t := ""
			if pt, is := p.(changes.DayPropsWithTime); is {
				t = pt.Time.String()
			}
			f(`<tr class="day"><td><span class="date">%s</span></td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				d, p.Kind(), html.EscapeString(p.DayName()), t)
		}
		f(`</table></div>`)
	}

	if ds := dedup(cs.Remove); len(ds) > 0 {
		f(`<div class="remove"><ul>`)
		for _, d := range ds {
			f(`<li><span class="date">%s</span></li>`, d)
		}
		f(`</ul></div>`)
	}

	if len(cs.Meta) > 0 {
		f(`<div class="meta"><table>`)
		f(`<tr><th>date</th><th>tags</th><th>comment</th></tr>`)
		for _, d := range cs.MetaDates() {
			m := cs.Meta[d]
			comment := ""
			if m.Comment != "" {
				comment = string(md.Run([]byte(m.Comment)))
			}
			f(`<tr class="dateMeta"><td><span class="date">%s</span></td><td>%s</td><td><div class="comment doc">%s</div></td></tr>`,
				d, html.EscapeString(strings.Join(m.Tags, ", ")), comment)
		}
		f(`</table></div>`)
	}

	return nil
}

// RenderChangesPage writes a complete HTML page for one exchange's
// changeset.
func RenderChangesPage(exchange string, cs *changes.ChangeSet, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/changes-html.css"}
	}

	title := html.EscapeString(exchange)

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, title)

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, title)

	if err := RenderChangesHTML(cs, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderChangesPage reads a YAML changeset file and renders
// its page.
func ReadAndRenderChangesPage(filename string, cssFiles []string, out io.Writer) error {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	var x interface{}
	if err = yaml.Unmarshal(bs, &x); err != nil {
		return err
	}
	m, is := stringMap(x)
	if !is {
		return fmt.Errorf("%s is not a mapping", filename)
	}
	cs, err := changes.FromMap(m)
	if err != nil {
		return err
	}

	return RenderChangesPage(strings.TrimSuffix(filename, ".yaml"), cs, out, cssFiles)
}

func stringMap(x interface{}) (map[string]interface{}, bool) {
	switch v := x.(type) {
	case map[string]interface{}:
		return v, true
	case map[interface{}]interface{}:
		acc := make(map[string]interface{}, len(v))
		for k, val := range v {
			s, is := k.(string)
			if !is {
				return nil, false
			}
			acc[s] = val
		}
		return acc, true
	}
	return nil, false
}

func dedup(ds []changes.Date) []changes.Date {
	seen := make(map[changes.Date]bool, len(ds))
	acc := make([]changes.Date, 0, len(ds))
	for _, d := range ds {
		if !seen[d] {
			seen[d] = true
			acc = append(acc, d)
		}
	}
	return acc
}
