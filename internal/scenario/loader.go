// internal/scenario/loader.go
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/userevent/api/schemas"
)

// Loaded is a parsed scenario file with its markup resolved.
type Loaded struct {
	Path     string
	Scenario schemas.Scenario
	Markup   string
}

var knownActions = map[string]bool{
	schemas.ActionClick: true, schemas.ActionDblClick: true, schemas.ActionTripleClick: true,
	schemas.ActionHover: true, schemas.ActionUnhover: true, schemas.ActionType: true,
	schemas.ActionClear: true, schemas.ActionKeyboard: true, schemas.ActionPointer: true,
	schemas.ActionTab: true, schemas.ActionCopy: true, schemas.ActionCut: true,
	schemas.ActionPaste: true, schemas.ActionUpload: true, schemas.ActionSelect: true,
	schemas.ActionDeselect: true,
}

// actions that need a target element.
var targeted = map[string]bool{
	schemas.ActionClick: true, schemas.ActionDblClick: true, schemas.ActionTripleClick: true,
	schemas.ActionHover: true, schemas.ActionUnhover: true, schemas.ActionType: true,
	schemas.ActionClear: true, schemas.ActionUpload: true, schemas.ActionSelect: true,
	schemas.ActionDeselect: true,
}

// LoadFile reads a scenario file. A leading ~ in path is expanded.
func LoadFile(path string) (*Loaded, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding scenario path %q: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	l, err := Parse(data, filepath.Dir(expanded))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	l.Path = expanded
	if l.Scenario.Name == "" {
		l.Scenario.Name = strings.TrimSuffix(filepath.Base(expanded), filepath.Ext(expanded))
	}
	return l, nil
}

// Parse decodes a scenario and reads its html_file relative to dir.
// Unknown fields are rejected.
func Parse(data []byte, dir string) (*Loaded, error) {
	var s schemas.Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}

	markup := s.HTML
	if markup == "" && s.HTMLFile != "" {
		file, err := homedir.Expand(s.HTMLFile)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading html_file: %w", err)
		}
		markup = string(b)
	}
	return &Loaded{Scenario: s, Markup: markup}, nil
}

// Validate checks the structure of a scenario before it runs.
func Validate(s *schemas.Scenario) error {
	if s.HTML == "" && s.HTMLFile == "" {
		return errors.New("one of html or html_file is required")
	}
	if s.HTML != "" && s.HTMLFile != "" {
		return errors.New("html and html_file are mutually exclusive")
	}
	if len(s.Steps) == 0 {
		return errors.New("at least one step is required")
	}
	for i, st := range s.Steps {
		if !knownActions[st.Action] {
			return fmt.Errorf("step %d: unknown action %q", i+1, st.Action)
		}
		if targeted[st.Action] && st.Target == "" {
			return fmt.Errorf("step %d: %s needs a target", i+1, st.Action)
		}
		if st.Action == schemas.ActionPointer && len(st.Pointer) == 0 {
			return fmt.Errorf("step %d: pointer needs at least one action", i+1)
		}
	}
	for i, e := range s.Expect {
		if e.Target == "" && e.Clipboard == nil {
			return fmt.Errorf("expectation %d: target is required", i+1)
		}
	}
	return nil
}

// Page renders the markup with the scenario styles and scripts inlined,
// for loading into a real browser.
func (l *Loaded) Page() string {
	var b strings.Builder
	for _, css := range l.Scenario.Styles {
		b.WriteString("<style>" + css + "</style>\n")
	}
	b.WriteString(l.Markup)
	for _, js := range l.Scenario.Scripts {
		b.WriteString("\n<script>" + js + "</script>")
	}
	return b.String()
}
