// Package models defines data structures for the scraper.
package models

import (
	"slices"
	"time"
)

// Headline is one trimmed, normalised unit of headline text.
type Headline string

// HeadlineCollection is a set of unique headlines kept in ascending byte order.
type HeadlineCollection []Headline

// NewHeadlineCollection builds a sorted collection from texts, dropping exact duplicates.
// The input slice is left untouched.
func NewHeadlineCollection(texts []string) HeadlineCollection {
	out := make(HeadlineCollection, 0, len(texts))
	for _, text := range texts {
		out = append(out, Headline(text))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Len returns the number of headlines.
func (c HeadlineCollection) Len() int {
	return len(c)
}

// Strings returns the headlines as plain strings.
func (c HeadlineCollection) Strings() []string {
	out := make([]string, len(c))
	for i, h := range c {
		out[i] = string(h)
	}
	return out
}

// SelectorKind names the matching mechanism of a selector pattern.
type SelectorKind string

const (
	SelectorCSS   SelectorKind = "css"
	SelectorXPath SelectorKind = "xpath"
)

// Selector is one markup-matching rule used to locate headline elements.
type Selector struct {
	Pattern string
	Kind    SelectorKind
}

// CSS is shorthand for a CSS selector.
func CSS(pattern string) Selector {
	return Selector{Pattern: pattern, Kind: SelectorCSS}
}

// XPath is shorthand for an XPath selector.
func XPath(pattern string) Selector {
	return Selector{Pattern: pattern, Kind: SelectorXPath}
}

// Source is a candidate site to scrape: a URL and its ordered selectors.
type Source struct {
	Name      string
	URL       string
	Selectors []Selector
}

// Attempt records the outcome of scraping a single source.
type Attempt struct {
	Source    string
	URL       string
	Headlines int
	Err       error
	Duration  time.Duration
}

// ScrapeResult holds the overall result of a scrape run.
type ScrapeResult struct {
	Source    string
	URL       string
	Headlines HeadlineCollection
	Attempts  []Attempt
	StartTime time.Time
	EndTime   time.Time
}
