// internal/css/parser.go
package css

import (
	"fmt"
	"strings"
)

// Property represents a CSS property (e.g., "display").
type Property string

// Value represents a CSS value (e.g., "none").
type Value string

// Declaration is a key-value pair (e.g., display: none).
type Declaration struct {
	Property  Property
	Value     Value
	Important bool
}

// RuleSet represents a set of declarations applied by a selector group.
type RuleSet struct {
	Selectors    SelectorGroup
	Declarations []Declaration
}

// StyleSheet is the top-level structure representing a parsed sheet.
type StyleSheet struct {
	Rules []RuleSet
}

// SelectorGroup represents a comma-separated list of selectors (e.g., "h1, h2 .title").
type SelectorGroup []ComplexSelector

// ComplexSelector represents a sequence of compound selectors joined by combinators (e.g., "div > p").
type ComplexSelector struct {
	Selectors []SimpleSelectorWithCombinator
}

// SimpleSelectorWithCombinator pairs a compound selector with its preceding combinator.
type SimpleSelectorWithCombinator struct {
	Combinator     Combinator
	SimpleSelector SimpleSelector
}

// SimpleSelector is a compound selector: tag, ID, classes, attributes and pseudo-classes.
type SimpleSelector struct {
	TagName    string
	ID         string
	Classes    []string
	Attributes []AttributeSelector
	Pseudo     []PseudoClass
}

// AttributeSelector represents `[href]` or `[target="_blank" i]`.
type AttributeSelector struct {
	Name            string
	Operator        string // "", "=", "~=", "|=", "^=", "$=", "*="
	Value           string
	CaseInsensitive bool
}

// PseudoClass is a parsed pseudo-class such as `:checked` or `:not(.a)`.
type PseudoClass struct {
	Name string
	// Arg holds the selector argument of functional pseudo-classes (:not, :is, :where, :has).
	Arg SelectorGroup
}

// Combinator defines the relationship between compound selectors.
type Combinator int

const (
	CombinatorNone            Combinator = iota // first selector
	CombinatorDescendant                        // space
	CombinatorChild                             // >
	CombinatorAdjacentSibling                   // +
	CombinatorGeneralSibling                    // ~
)

// supportedPseudo lists the pseudo-classes the matcher understands.
var supportedPseudo = map[string]bool{
	"not": true, "is": true, "where": true, "has": true,
	"checked": true, "disabled": true, "enabled": true, "focus": true,
	"focus-within": true, "read-only": true, "read-write": true,
	"first-child": true, "last-child": true, "only-child": true,
	"root": true, "scope": true, "empty": true, "indeterminate": true,
	"required": true, "optional": true, "link": true, "any-link": true,
	"placeholder-shown": true,
}

var functionalPseudo = map[string]bool{"not": true, "is": true, "where": true, "has": true}

// Specificity returns the (a, b, c) specificity of a complex selector.
func (cs ComplexSelector) Specificity() (int, int, int) {
	a, b, c := 0, 0, 0
	for _, s := range cs.Selectors {
		sa, sb, sc := s.SimpleSelector.Specificity()
		a += sa
		b += sb
		c += sc
	}
	return a, b, c
}

// Specificity calculates the specificity of a compound selector.
func (s SimpleSelector) Specificity() (a, b, c int) {
	if s.ID != "" {
		a = 1
	}
	b = len(s.Classes) + len(s.Attributes)
	if s.TagName != "" && s.TagName != "*" {
		c = 1
	}
	for _, p := range s.Pseudo {
		switch p.Name {
		case "where":
		case "not", "is", "has":
			// The most specific argument counts.
			ma, mb, mc := 0, 0, 0
			for _, arg := range p.Arg {
				xa, xb, xc := arg.Specificity()
				if xa > ma || (xa == ma && (xb > mb || (xb == mb && xc > mc))) {
					ma, mb, mc = xa, xb, xc
				}
			}
			a, b, c = a+ma, b+mb, c+mc
		default:
			b++
		}
	}
	return a, b, c
}

// IsValid checks if the selector has at least one component.
func (s SimpleSelector) IsValid() bool {
	return s.TagName != "" || s.ID != "" || len(s.Classes) > 0 || len(s.Attributes) > 0 || len(s.Pseudo) > 0
}

// SyntaxError reports a selector that could not be parsed.
type SyntaxError struct {
	Selector string
	Pos      int
	Reason   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("'%s' is not a valid selector: %s at offset %d", e.Selector, e.Reason, e.Pos)
}

// Parser holds the state of the CSS parser.
type Parser struct {
	input string
	pos   int
}

func NewParser(input string) *Parser {
	return &Parser{input: input, pos: 0}
}

// ParseSelector parses a selector list strictly, the way querySelector does.
func ParseSelector(selector string) (SelectorGroup, error) {
	p := NewParser(selector)
	group, err := p.parseSelectorList(0)
	if err != nil {
		return nil, err
	}
	p.consumeWhitespace()
	if !p.eof() {
		return nil, &SyntaxError{Selector: selector, Pos: p.pos, Reason: fmt.Sprintf("unexpected %q", p.currentChar())}
	}
	if len(group) == 0 {
		return nil, &SyntaxError{Selector: selector, Pos: 0, Reason: "empty selector"}
	}
	return group, nil
}

// MustParseSelector is ParseSelector for selectors known at compile time.
func MustParseSelector(selector string) SelectorGroup {
	g, err := ParseSelector(selector)
	if err != nil {
		panic(err)
	}
	return g
}

// Parse analyzes the input CSS string and builds a StyleSheet. Rules with
// selectors that fail to parse are skipped.
func (p *Parser) Parse() StyleSheet {
	var rules []RuleSet
	for {
		p.consumeWhitespace()
		if p.eof() {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		if p.currentChar() == '@' {
			p.skipAtRule()
			continue
		}

		start := p.pos
		p.skipTo('{')
		selectorText := strings.TrimSpace(p.input[start:p.pos])
		if p.eof() {
			break
		}
		declarations, err := p.parseDeclarations()
		if err != nil {
			continue
		}
		group, err := ParseSelector(selectorText)
		if err != nil {
			continue
		}
		if len(declarations) > 0 {
			rules = append(rules, RuleSet{Selectors: group, Declarations: declarations})
		}
	}
	return StyleSheet{Rules: rules}
}

// parseSelectorList parses a comma-separated list of complex selectors. At
// depth > 0 it stops at the closing parenthesis of a functional pseudo-class.
func (p *Parser) parseSelectorList(depth int) (SelectorGroup, error) {
	var group SelectorGroup
	for {
		p.consumeWhitespace()
		complex, err := p.parseComplexSelector(depth)
		if err != nil {
			return nil, err
		}
		if len(complex.Selectors) == 0 {
			return nil, p.errorf("expected selector")
		}
		group = append(group, complex)

		p.consumeWhitespace()
		if !p.eof() && p.currentChar() == ',' {
			p.consumeChar()
			continue
		}
		return group, nil
	}
}

// parseComplexSelector parses a sequence of compound selectors and combinators.
func (p *Parser) parseComplexSelector(depth int) (ComplexSelector, error) {
	var complexSelector ComplexSelector
	combinator := CombinatorNone

	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == ',' || (depth > 0 && p.currentChar() == ')') {
			if combinator != CombinatorNone && combinator != CombinatorDescendant {
				return complexSelector, p.errorf("dangling combinator")
			}
			break
		}

		simple, err := p.parseSimpleSelector(depth)
		if err != nil {
			return complexSelector, err
		}
		complexSelector.Selectors = append(complexSelector.Selectors, SimpleSelectorWithCombinator{
			Combinator:     combinator,
			SimpleSelector: simple,
		})

		hadSpace := p.consumeWhitespace()
		if p.eof() || p.currentChar() == ',' || (depth > 0 && p.currentChar() == ')') {
			break
		}

		switch p.currentChar() {
		case '>':
			combinator = CombinatorChild
			p.consumeChar()
		case '+':
			combinator = CombinatorAdjacentSibling
			p.consumeChar()
		case '~':
			combinator = CombinatorGeneralSibling
			p.consumeChar()
		default:
			if !hadSpace {
				return complexSelector, p.errorf(fmt.Sprintf("unexpected %q", p.currentChar()))
			}
			combinator = CombinatorDescendant
		}
	}
	return complexSelector, nil
}

// parseSimpleSelector parses a compound selector (e.g., input#id.a[type=text]:not(:checked)).
func (p *Parser) parseSimpleSelector(depth int) (SimpleSelector, error) {
	selector := SimpleSelector{}

	if !p.eof() {
		ch := p.currentChar()
		if ch == '*' {
			p.consumeChar()
			selector.TagName = "*"
		} else if isValidIdentifierStart(ch) {
			selector.TagName = strings.ToLower(p.parseIdentifier())
		}
	}

	for !p.eof() {
		switch p.currentChar() {
		case '#':
			p.consumeChar()
			id := p.parseIdentifier()
			if id == "" {
				return selector, p.errorf("expected identifier after '#'")
			}
			selector.ID = id
		case '.':
			p.consumeChar()
			class := p.parseIdentifier()
			if class == "" {
				return selector, p.errorf("expected identifier after '.'")
			}
			selector.Classes = append(selector.Classes, class)
		case '[':
			p.consumeChar()
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return selector, err
			}
			selector.Attributes = append(selector.Attributes, attr)
		case ':':
			p.consumeChar()
			pseudo, err := p.parsePseudoClass(depth)
			if err != nil {
				return selector, err
			}
			selector.Pseudo = append(selector.Pseudo, pseudo)
		default:
			goto done
		}
	}

done:
	if !selector.IsValid() {
		return selector, p.errorf("invalid simple selector")
	}
	return selector, nil
}

func (p *Parser) parsePseudoClass(depth int) (PseudoClass, error) {
	if !p.eof() && p.currentChar() == ':' {
		return PseudoClass{}, p.errorf("pseudo-elements are not supported")
	}
	name := strings.ToLower(p.parseIdentifier())
	if name == "" {
		return PseudoClass{}, p.errorf("expected pseudo-class name")
	}
	if !supportedPseudo[name] {
		return PseudoClass{}, p.errorf(fmt.Sprintf("unsupported pseudo-class :%s", name))
	}
	pc := PseudoClass{Name: name}
	if functionalPseudo[name] {
		if p.eof() || p.currentChar() != '(' {
			return pc, p.errorf(fmt.Sprintf(":%s requires an argument", name))
		}
		p.consumeChar()
		arg, err := p.parseSelectorList(depth + 1)
		if err != nil {
			return pc, err
		}
		p.consumeWhitespace()
		if p.eof() || p.currentChar() != ')' {
			return pc, p.errorf("expected ')'")
		}
		p.consumeChar()
		pc.Arg = arg
	}
	return pc, nil
}

// parseAttributeSelector parses the contents of `[...]`.
func (p *Parser) parseAttributeSelector() (AttributeSelector, error) {
	p.consumeWhitespace()
	name := strings.ToLower(p.parseIdentifier())
	if name == "" {
		return AttributeSelector{}, p.errorf("expected attribute name")
	}
	p.consumeWhitespace()

	if p.eof() {
		return AttributeSelector{}, p.errorf("unexpected end of attribute selector")
	}

	if p.currentChar() == ']' {
		p.consumeChar()
		return AttributeSelector{Name: name}, nil
	}

	var operator strings.Builder
	switch ch := p.currentChar(); ch {
	case '=':
		operator.WriteByte(p.consumeChar())
	case '~', '|', '^', '$', '*':
		operator.WriteByte(p.consumeChar())
		if p.eof() || p.currentChar() != '=' {
			return AttributeSelector{}, p.errorf("expected '='")
		}
		operator.WriteByte(p.consumeChar())
	default:
		return AttributeSelector{}, p.errorf(fmt.Sprintf("unexpected %q in attribute selector", ch))
	}

	p.consumeWhitespace()

	var value string
	if !p.eof() && (p.currentChar() == '"' || p.currentChar() == '\'') {
		quote := p.currentChar()
		p.consumeChar()
		start := p.pos
		for !p.eof() && p.currentChar() != quote {
			p.pos++
		}
		if p.eof() {
			return AttributeSelector{}, p.errorf("unterminated string")
		}
		value = p.input[start:p.pos]
		p.consumeChar()
	} else {
		value = p.parseIdentifier()
		if value == "" {
			return AttributeSelector{}, p.errorf("expected attribute value")
		}
	}
	p.consumeWhitespace()

	sel := AttributeSelector{Name: name, Operator: operator.String(), Value: value}
	if !p.eof() && (p.currentChar() == 'i' || p.currentChar() == 'I') {
		p.consumeChar()
		sel.CaseInsensitive = true
		p.consumeWhitespace()
	}

	if p.eof() || p.currentChar() != ']' {
		return AttributeSelector{}, p.errorf("expected ']' to close attribute selector")
	}
	p.consumeChar()
	return sel, nil
}

// ParseDeclarations parses a declaration block body such as an inline style attribute.
func ParseDeclarations(body string) []Declaration {
	p := NewParser("{" + body + "}")
	decls, _ := p.parseDeclarations()
	return decls
}

// parseDeclarations parses the content within { ... }.
func (p *Parser) parseDeclarations() ([]Declaration, error) {
	p.consumeWhitespace()
	if p.eof() || p.currentChar() != '{' {
		return nil, fmt.Errorf("expected '{' at start of declarations")
	}
	p.consumeChar()

	var declarations []Declaration
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '}' {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}

		property, value, important := p.parseDeclaration()
		if property != "" && value != "" {
			declarations = append(declarations, Declaration{
				Property:  Property(strings.ToLower(property)),
				Value:     Value(value),
				Important: important,
			})
		}
	}

	if !p.eof() && p.currentChar() == '}' {
		p.consumeChar()
	}
	return declarations, nil
}

// parseDeclaration parses a single 'property: value;' pair.
func (p *Parser) parseDeclaration() (prop, val string, important bool) {
	if !isValidIdentifierStart(p.currentChar()) {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return
	}
	prop = p.parseIdentifier()
	p.consumeWhitespace()

	if p.eof() || p.currentChar() != ':' {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return "", "", false
	}
	p.consumeChar()
	p.consumeWhitespace()

	val = p.parseValue()
	if strings.HasSuffix(strings.ToLower(val), "!important") {
		important = true
		val = strings.TrimSpace(val[:len(val)-len("!important")])
	}

	p.consumeWhitespace()
	if !p.eof() && p.currentChar() == ';' {
		p.consumeChar()
	}
	return
}

// parseValue reads a CSS value until a delimiter.
func (p *Parser) parseValue() string {
	start := p.pos
	for !p.eof() {
		ch := p.currentChar()
		if ch == ';' || ch == '}' {
			break
		}
		if ch == '"' || ch == '\'' {
			p.skipQuotedString(ch)
			continue
		}
		if ch == '(' {
			p.consumeChar()
			p.skipBlock('(', ')')
			continue
		}
		p.pos++
	}
	return strings.TrimSpace(p.input[start:p.pos])
}

// --- Lexer-like Helpers ---

func (p *Parser) errorf(reason string) error {
	return &SyntaxError{Selector: p.input, Pos: p.pos, Reason: reason}
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) currentChar() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) consumeChar() byte {
	ch := p.currentChar()
	if !p.eof() {
		p.pos++
	}
	return ch
}

// consumeWhitespace reports whether anything was consumed.
func (p *Parser) consumeWhitespace() bool {
	start := p.pos
	for !p.eof() && isWhitespace(p.currentChar()) {
		p.pos++
	}
	return p.pos > start
}

func (p *Parser) startsWith(s string) bool {
	return strings.HasPrefix(p.input[p.pos:], s)
}

func (p *Parser) skipComment() {
	p.pos += 2
	endIndex := strings.Index(p.input[p.pos:], "*/")
	if endIndex == -1 {
		p.pos = len(p.input)
	} else {
		p.pos += endIndex + 2
	}
}

func (p *Parser) skipTo(targets ...byte) {
	for !p.eof() {
		ch := p.currentChar()
		for _, target := range targets {
			if ch == target {
				return
			}
		}
		p.pos++
	}
}

// skipBlock expects the opening character to be consumed already.
func (p *Parser) skipBlock(open, close byte) {
	depth := 1
	for !p.eof() {
		c := p.consumeChar()
		if c == open {
			depth++
		} else if c == close {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) skipQuotedString(quote byte) {
	p.consumeChar()
	for !p.eof() {
		ch := p.consumeChar()
		if ch == '\\' {
			p.consumeChar()
		} else if ch == quote {
			return
		}
	}
}

func (p *Parser) skipAtRule() {
	p.consumeChar()
	_ = p.parseIdentifier()
	p.consumeWhitespace()
	for !p.eof() {
		ch := p.currentChar()
		if ch == '{' {
			p.consumeChar()
			p.skipBlock('{', '}')
			return
		}
		if ch == ';' {
			p.consumeChar()
			return
		}
		p.pos++
	}
}

func (p *Parser) parseIdentifier() string {
	var b strings.Builder
	for !p.eof() {
		ch := p.currentChar()
		if ch == '\\' && p.pos+1 < len(p.input) {
			b.WriteByte(p.input[p.pos+1])
			p.pos += 2
			continue
		}
		if !isValidIdentifierChar(ch) {
			break
		}
		b.WriteByte(ch)
		p.pos++
	}
	return b.String()
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isValidIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '-' || ch == '\\' || ch >= 0x80
}

func isValidIdentifierChar(ch byte) bool {
	return isValidIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}
