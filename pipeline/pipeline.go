// Package pipeline turns candidate texts into headline collections and writes them out.
package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aluiziolira/go-scrape-headlines/models"
	"github.com/aluiziolira/go-scrape-headlines/parser"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Collector applies the length filter and exact-text dedupe to candidate headlines.
// Every accepted headline is kept in seen, which has no size limit. recent is a
// bounded LRU of the most recently matched texts and only short-cuts the
// duplicate check; dropping an entry from it never drops a headline.
type Collector struct {
	seen    map[string]struct{}
	recent  *lru.Cache[string, struct{}]
	metrics metrics
}

// NewCollector builds a collector whose duplicate cache holds cacheSize entries.
func NewCollector(cacheSize int) (*Collector, error) {
	recent, err := lru.New[string, struct{}](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create dedupe cache: %w", err)
	}
	return &Collector{
		seen:    make(map[string]struct{}),
		recent:  recent,
		metrics: newMetrics(),
	}, nil
}

// Process feeds candidate texts through filter and dedupe.
func (c *Collector) Process(candidates ...string) {
	for _, text := range candidates {
		c.prepare(text)
	}
}

func (c *Collector) prepare(text string) {
	text = parser.NormalizeHeadline(text)
	if err := parser.ValidateHeadline(text); err != nil {
		switch {
		case errors.Is(err, parser.ErrEmptyHeadline):
			c.metrics.addValidation("empty")
		default:
			c.metrics.addValidation("too_short")
		}
		return
	}

	if c.isDuplicate(text) {
		c.metrics.addValidation("duplicate")
		return
	}
	c.seen[text] = struct{}{}
	c.recent.Add(text, struct{}{})
	c.metrics.incrementProcessed()
}

func (c *Collector) isDuplicate(text string) bool {
	if c.recent.Contains(text) {
		return true
	}
	if _, ok := c.seen[text]; ok {
		c.recent.Add(text, struct{}{})
		return true
	}
	return false
}

// Len returns the number of unique headlines accepted so far.
func (c *Collector) Len() int {
	return len(c.seen)
}

// Collection returns the accepted headlines sorted in ascending byte order.
func (c *Collector) Collection() models.HeadlineCollection {
	texts := make([]string, 0, len(c.seen))
	for text := range c.seen {
		texts = append(texts, text)
	}
	return models.NewHeadlineCollection(texts)
}

// GetMetrics returns a snapshot of the internal counters.
func (c *Collector) GetMetrics() map[string]interface{} {
	return c.metrics.snapshot()
}

type metrics struct {
	mu         sync.Mutex
	processed  int64
	validation map[string]int
}

func newMetrics() metrics {
	return metrics{
		validation: make(map[string]int),
	}
}

func (m *metrics) incrementProcessed() {
	m.mu.Lock()
	m.processed++
	m.mu.Unlock()
}

func (m *metrics) addValidation(kind string) {
	m.mu.Lock()
	m.validation[kind]++
	m.mu.Unlock()
}

func (m *metrics) snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	copyValidation := make(map[string]int, len(m.validation))
	for k, v := range m.validation {
		copyValidation[k] = v
	}

	return map[string]interface{}{
		"processed_headlines": m.processed,
		"validation_errors":   copyValidation,
	}
}
