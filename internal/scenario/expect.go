// internal/scenario/expect.go
package scenario

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/xkilldash9x/userevent/api/schemas"
	"github.com/xkilldash9x/userevent/internal/dom"
)

// check compares the final document state with the expectations and
// returns one message per mismatch.
func check(doc *dom.Document, rec *Recorder, clipboard *dom.Clipboard, expects []schemas.Expectation) []string {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	for _, e := range expects {
		if e.Clipboard != nil {
			if got := clipboard.ReadText(); got != *e.Clipboard {
				fail("clipboard is %q, want %q", got, *e.Clipboard)
			}
		}
		if e.Target == "" {
			continue
		}
		el, err := Resolve(doc, e.Target)
		if err != nil {
			fail("%s: %v", e.Target, err)
			continue
		}
		if e.Value != nil && el.Value() != *e.Value {
			fail("%s: value is %q, want %q", e.Target, el.Value(), *e.Value)
		}
		if e.Text != nil && el.TextContent() != *e.Text {
			fail("%s: text is %q, want %q", e.Target, el.TextContent(), *e.Text)
		}
		if e.Checked != nil && el.Checked() != *e.Checked {
			fail("%s: checked is %t, want %t", e.Target, el.Checked(), *e.Checked)
		}
		if e.Focused != nil && (doc.ActiveElement() == el) != *e.Focused {
			fail("%s: focused is %t, want %t", e.Target, !*e.Focused, *e.Focused)
		}
		if e.Selected != nil {
			var got []string
			for _, o := range el.SelectedOptions() {
				got = append(got, o.Value())
			}
			if diff := cmp.Diff(e.Selected, got, cmpopts.EquateEmpty()); diff != "" {
				fail("%s: selected options mismatch (-want +got):\n%s", e.Target, diff)
			}
		}
		if e.Files != nil {
			var got []string
			for _, f := range el.Files() {
				got = append(got, f.Name)
			}
			if diff := cmp.Diff(e.Files, got, cmpopts.EquateEmpty()); diff != "" {
				fail("%s: files mismatch (-want +got):\n%s", e.Target, diff)
			}
		}
		if e.Events != nil {
			got := only(rec.TypesOn(el), e.Events)
			if diff := cmp.Diff(e.Events, got); diff != "" {
				fail("%s: event sequence mismatch (-want +got):\n%s", e.Target, diff)
			}
		}
	}
	return failures
}

// only keeps the types that occur in want, so an expectation lists just
// the events it cares about.
func only(types, want []string) []string {
	keep := make(map[string]bool, len(want))
	for _, w := range want {
		keep[w] = true
	}
	out := []string{}
	for _, t := range types {
		if keep[t] {
			out = append(out, t)
		}
	}
	return out
}
