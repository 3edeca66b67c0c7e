// internal/style/style.go
package style

import (
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/userevent/internal/css"
)

// DefaultUserAgentCSS covers the parts of the UA sheet that influence
// visibility and hit testing. Layout related properties are omitted.
const DefaultUserAgentCSS = `
head, script, style, template, title, meta, link, base, noscript, datalist, [hidden] {
    display: none;
}

html, body, div, p, form, fieldset, legend, details, summary, section, article,
header, footer, nav, main, ul, ol, h1, h2, h3, h4, h5, h6, address, blockquote, pre {
    display: block;
}

li { display: list-item; }

input, button, textarea, select, img {
    display: inline-block;
}

input[type="hidden" i] {
    display: none;
}

table { display: table; }
tr { display: table-row; }
td, th { display: table-cell; }
`

// inherited lists the properties this engine resolves with inheritance.
var inherited = map[css.Property]bool{
	"visibility":     true,
	"pointer-events": true,
	"cursor":         true,
	"color":          true,
}

// initial values for the properties the engine reports.
var initial = map[css.Property]string{
	"display":        "inline",
	"visibility":     "visible",
	"pointer-events": "auto",
	"opacity":        "1",
}

// StyleOrigin orders declarations in the cascade.
type StyleOrigin int

const (
	OriginUserAgent StyleOrigin = iota
	OriginAuthor
	OriginInline
)

type declarationWithContext struct {
	Declaration css.Declaration
	Specificity struct{ A, B, C int }
	Origin      StyleOrigin
	Order       int
}

// Engine resolves computed styles for elements of a single document.
type Engine struct {
	userAgentSheets []css.StyleSheet
	authorSheets    []css.StyleSheet
	matcher         *css.Matcher
	logger          *zap.Logger
}

// NewEngine creates a style engine using the default UA sheet. The state is
// used for dynamic pseudo-classes in author selectors and may be nil.
func NewEngine(state css.State, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		userAgentSheets: []css.StyleSheet{css.NewParser(DefaultUserAgentCSS).Parse()},
		matcher:         &css.Matcher{State: state},
		logger:          logger.Named("style"),
	}
}

// AddAuthorSheet adds a stylesheet provided by the page author.
func (se *Engine) AddAuthorSheet(sheet css.StyleSheet) {
	se.authorSheets = append(se.authorSheets, sheet)
	se.logger.Debug("Author stylesheet added.", zap.Int("rules", len(sheet.Rules)))
}

// AddAuthorCSS parses and adds author CSS text.
func (se *Engine) AddAuthorCSS(text string) {
	se.AddAuthorSheet(css.NewParser(text).Parse())
}

// CalculateStyles returns the cascaded (specified) values for a node, without inheritance.
func (se *Engine) CalculateStyles(node *html.Node) map[css.Property]css.Value {
	var declarations []declarationWithContext
	order := 0

	processSheets := func(sheets []css.StyleSheet, origin StyleOrigin) {
		for _, sheet := range sheets {
			for _, rule := range sheet.Rules {
				matched, ok := se.matcher.Match(node, rule.Selectors)
				if !ok {
					continue
				}
				a, b, c := matched.Specificity()
				for _, decl := range rule.Declarations {
					declarations = append(declarations, declarationWithContext{
						Declaration: decl,
						Specificity: struct{ A, B, C int }{a, b, c},
						Origin:      origin,
						Order:       order,
					})
					order++
				}
			}
		}
	}

	processSheets(se.userAgentSheets, OriginUserAgent)
	processSheets(se.authorSheets, OriginAuthor)

	for _, attr := range node.Attr {
		if attr.Key == "style" {
			for _, decl := range css.ParseDeclarations(attr.Val) {
				declarations = append(declarations, declarationWithContext{
					Declaration: decl,
					Specificity: struct{ A, B, C int }{1, 0, 0},
					Origin:      OriginInline,
					Order:       order,
				})
				order++
			}
		}
	}

	sort.SliceStable(declarations, func(i, j int) bool {
		d1, d2 := declarations[i], declarations[j]
		p1, p2 := calculateCascadePriority(d1), calculateCascadePriority(d2)
		if p1 != p2 {
			return p1 < p2
		}
		s1, s2 := d1.Specificity, d2.Specificity
		if s1.A != s2.A {
			return s1.A < s2.A
		}
		if s1.B != s2.B {
			return s1.B < s2.B
		}
		if s1.C != s2.C {
			return s1.C < s2.C
		}
		return d1.Order < d2.Order
	})

	styles := make(map[css.Property]css.Value)
	for _, declCtx := range declarations {
		styles[declCtx.Declaration.Property] = css.Value(strings.ToLower(string(declCtx.Declaration.Value)))
	}
	return styles
}

func calculateCascadePriority(d declarationWithContext) int {
	isImportant := d.Declaration.Important
	switch d.Origin {
	case OriginUserAgent:
		if isImportant {
			return 5
		}
		return 1
	case OriginAuthor:
		if isImportant {
			return 4
		}
		return 2
	case OriginInline:
		if isImportant {
			return 4
		}
		return 3
	}
	return 0
}

// ComputedStyle is the resolved style of one element.
type ComputedStyle struct {
	values map[css.Property]string
}

// Lookup returns the computed value of a property or the fallback.
func (cs ComputedStyle) Lookup(property, fallback string) string {
	if v, ok := cs.values[css.Property(property)]; ok {
		return v
	}
	return fallback
}

// Display returns the computed display value.
func (cs ComputedStyle) Display() string { return cs.Lookup("display", initial["display"]) }

// Visibility returns the computed visibility value.
func (cs ComputedStyle) Visibility() string { return cs.Lookup("visibility", initial["visibility"]) }

// PointerEvents returns the computed pointer-events value.
func (cs ComputedStyle) PointerEvents() string {
	return cs.Lookup("pointer-events", initial["pointer-events"])
}

// DeclaredValue returns the cascaded value the element itself declares for a
// property, before inherit/initial/unset resolution.
func (cs ComputedStyle) DeclaredValue(property string) (string, bool) {
	v, ok := cs.values[css.Property("declared:"+property)]
	return v, ok
}

// ComputedStyle resolves the style of an element, walking ancestors for inherited properties.
func (se *Engine) ComputedStyle(node *html.Node) ComputedStyle {
	out := ComputedStyle{values: map[css.Property]string{}}
	if node == nil || node.Type != html.ElementNode {
		return out
	}

	specified := se.CalculateStyles(node)
	var parent ComputedStyle
	parentResolved := false
	parentStyle := func() ComputedStyle {
		if !parentResolved {
			if node.Parent != nil && node.Parent.Type == html.ElementNode {
				parent = se.ComputedStyle(node.Parent)
			} else {
				parent = ComputedStyle{values: map[css.Property]string{}}
			}
			parentResolved = true
		}
		return parent
	}

	for prop, val := range specified {
		v := string(val)
		out.values["declared:"+prop] = v
		switch v {
		case "inherit":
			v = parentStyle().Lookup(string(prop), initial[prop])
		case "initial":
			v = initial[prop]
		case "unset":
			if inherited[prop] {
				v = parentStyle().Lookup(string(prop), initial[prop])
			} else {
				v = initial[prop]
			}
		}
		if v != "" {
			out.values[prop] = v
		}
	}
	for prop := range inherited {
		if _, ok := out.values[prop]; ok {
			continue
		}
		if v, ok := parentStyle().values[prop]; ok {
			out.values[prop] = v
		}
	}
	return out
}

// IsVisible reports whether the element itself is not hidden by display,
// visibility or opacity. Ancestors are not considered.
func (cs ComputedStyle) IsVisible() bool {
	if cs.Display() == "none" {
		return false
	}
	v := cs.Visibility()
	if v == "hidden" || v == "collapse" {
		return false
	}
	return true
}
