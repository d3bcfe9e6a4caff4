// Package parser turns fetched pages into candidate headline texts.
package parser

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-headlines/models"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Rule extracts text from every element it matches in a parsed document.
type Rule interface {
	Apply(root *html.Node) []string
	String() string
}

// NewRule compiles a selector into a Rule.
func NewRule(sel models.Selector) (Rule, error) {
	switch sel.Kind {
	case models.SelectorCSS, "":
		matcher, err := cascadia.Compile(sel.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile css %q: %w", sel.Pattern, err)
		}
		return &cssRule{pattern: sel.Pattern, matcher: matcher}, nil
	case models.SelectorXPath:
		expr, err := xpath.Compile(sel.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile xpath %q: %w", sel.Pattern, err)
		}
		return &xpathRule{pattern: sel.Pattern, expr: expr}, nil
	default:
		return nil, fmt.Errorf("unsupported selector kind %q", sel.Kind)
	}
}

type cssRule struct {
	pattern string
	matcher cascadia.Selector
}

func (r *cssRule) Apply(root *html.Node) []string {
	var texts []string
	goquery.NewDocumentFromNode(root).FindMatcher(r.matcher).Each(func(_ int, sel *goquery.Selection) {
		texts = append(texts, sel.Text())
	})
	return texts
}

func (r *cssRule) String() string {
	return "css:" + r.pattern
}

type xpathRule struct {
	pattern string
	expr    *xpath.Expr
}

func (r *xpathRule) Apply(root *html.Node) []string {
	nodes := htmlquery.QuerySelectorAll(root, r.expr)
	texts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		texts = append(texts, htmlquery.InnerText(node))
	}
	return texts
}

func (r *xpathRule) String() string {
	return "xpath:" + r.pattern
}

// Extractor applies an ordered set of rules and unions their matches.
// It does not filter or dedupe; that is left to the caller.
type Extractor struct {
	rules   []Rule
	skipped int
}

// NewExtractor compiles selectors in order. A selector that fails to compile is
// logged and skipped, so markup drift degrades to fewer matches rather than an error.
func NewExtractor(selectors []models.Selector) *Extractor {
	e := &Extractor{rules: make([]Rule, 0, len(selectors))}
	for _, sel := range selectors {
		rule, err := NewRule(sel)
		if err != nil {
			slog.Warn("skipping selector", slog.String("pattern", sel.Pattern), slog.Any("error", err))
			e.skipped++
			continue
		}
		e.rules = append(e.rules, rule)
	}
	return e
}

// Rules returns the number of usable rules.
func (e *Extractor) Rules() int {
	return len(e.rules)
}

// Skipped returns the number of selectors that failed to compile.
func (e *Extractor) Skipped() int {
	return e.skipped
}

// Candidates parses body and returns the normalised text of every rule match,
// in rule order. The result may contain duplicates and short strings.
func (e *Extractor) Candidates(pageURL string, body []byte) ([]string, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	var out []string
	for _, rule := range e.rules {
		matched := rule.Apply(root)
		slog.Debug("selector applied",
			slog.String("rule", rule.String()),
			slog.Int("matches", len(matched)),
		)
		for _, text := range matched {
			out = append(out, NormalizeHeadline(text))
		}
	}
	return out, nil
}
