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
	"fmt"
	"io"
	"strings"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
)

type MermaidOpts struct {
	// Title is the timeline title.
	Title string `json:"title,omitempty"`

	// ShowMeta adds a section listing dates that only carry tags or
	// a comment.
	ShowMeta bool `json:"showMeta,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) timeline
// for the given changeset: one section per day type for additions,
// one section for removals, and optionally one for metadata-only
// dates.
func Mermaid(cs *changes.ChangeSet, w io.Writer, opts *MermaidOpts) error {
	if opts == nil {
		opts = &MermaidOpts{
			ShowMeta: true,
		}
	}

	fmt.Fprintf(w, "timeline\n")
	if opts.Title != "" {
		fmt.Fprintf(w, "  title %s\n", clean(opts.Title))
	}

	for _, t := range changes.DayTypes {
		ds := cs.DatesByType(t)
		if len(ds) == 0 {
			continue
		}
		fmt.Fprintf(w, "  section %s\n", t)
		for _, d := range ds {
			p := cs.Add[d]
			label := p.DayName()
			if pt, is := p.(changes.DayPropsWithTime); is {
				label = fmt.Sprintf("%s at %s", label, pt.Time)
			}
			fmt.Fprintf(w, "    %s : %s\n", d, clean(label))
		}
	}

	if ds := dedup(cs.Remove); len(ds) > 0 {
		fmt.Fprintf(w, "  section removed\n")
		for _, d := range ds {
			fmt.Fprintf(w, "    %s : removed\n", d)
		}
	}

	if opts.ShowMeta && len(cs.Meta) > 0 {
		fmt.Fprintf(w, "  section meta\n")
		for _, d := range cs.MetaDates() {
			m := cs.Meta[d]
			label := strings.Join(m.Tags, ", ")
			if label == "" {
				label = m.Comment
			}
			fmt.Fprintf(w, "    %s : %s\n", d, clean(label))
		}
	}

	fmt.Fprintf(w, "\n")

	return nil
}

// clean strips characters that confuse the Mermaid parser.
func clean(s string) string {
	s = strings.Replace(s, ":", ";", -1)
	s = strings.Replace(s, "\n", " ", -1)
	return s
}
