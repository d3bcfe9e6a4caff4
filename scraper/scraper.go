package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aluiziolira/go-scrape-headlines/config"
	"github.com/aluiziolira/go-scrape-headlines/models"
	"github.com/aluiziolira/go-scrape-headlines/parser"
	"github.com/aluiziolira/go-scrape-headlines/pipeline"
	"github.com/gocolly/colly/v2"
)

const (
	ctxBody   = "body"
	ctxStatus = "status"
)

// Scraper fetches the configured news sources through a single colly collector.
// The collector, and with it the HTTP client and User-Agent, is shared by the
// primary and fallback requests.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	primary   *parser.Extractor
	fallback  *parser.Extractor
	Metrics   *Metrics
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(0),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	collector.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(ctxBody, r.Body)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.Ctx != nil {
			r.Ctx.Put(ctxStatus, r.StatusCode)
		}
	})

	s := &Scraper{
		cfg:       cfg,
		collector: collector,
		primary:   newExtractor(cfg.Primary),
		fallback:  newExtractor(cfg.Fallback),
		Metrics:   NewMetrics(),
	}
	return s, nil
}

// WithTransport replaces the HTTP transport used for every source request.
func (s *Scraper) WithTransport(rt http.RoundTripper) {
	s.collector.WithTransport(rt)
}

func newExtractor(src models.Source) *parser.Extractor {
	e := parser.NewExtractor(src.Selectors)
	if e.Rules() == 0 {
		slog.Warn("source has no usable selectors",
			slog.String("source", src.Name),
			slog.Int("skipped", e.Skipped()),
		)
	}
	return e
}

// Fetch issues a single GET for rawURL and returns the body of a 2xx response.
// Failures are returned as *FetchError wrapping a classified cause. There are no retries.
func (s *Scraper) Fetch(ctx context.Context, source, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reqCtx := colly.NewContext()
	start := time.Now()
	s.Metrics.IncRequest(source)
	err := s.collector.Request(http.MethodGet, rawURL, nil, reqCtx, nil)
	s.Metrics.ObserveDuration(time.Since(start))

	if err != nil {
		status, _ := reqCtx.GetAny(ctxStatus).(int)
		return nil, &FetchError{URL: rawURL, StatusCode: status, Err: classifyError(err, status)}
	}

	body, _ := reqCtx.GetAny(ctxBody).([]byte)
	return body, nil
}

// scrapeSource fetches src and reduces the page to a sorted headline collection.
func (s *Scraper) scrapeSource(ctx context.Context, src models.Source, ext *parser.Extractor) (models.HeadlineCollection, error) {
	slog.Info("fetching headlines",
		slog.String("source", src.Name),
		slog.String("url", src.URL),
	)

	body, err := s.Fetch(ctx, src.Name, src.URL)
	if err != nil {
		return nil, err
	}

	candidates, err := ext.Candidates(src.URL, body)
	if err != nil {
		return nil, err
	}

	collector, err := pipeline.NewCollector(s.cfg.DedupeMaxSize)
	if err != nil {
		return nil, err
	}
	collector.Process(candidates...)
	headlines := collector.Collection()

	slog.Info("scraped headlines",
		slog.String("source", src.Name),
		slog.Int("unique", headlines.Len()),
		slog.Int("candidates", len(candidates)),
	)
	slog.Debug("collector metrics",
		slog.String("source", src.Name),
		slog.Any("metrics", collector.GetMetrics()),
	)
	s.Metrics.AddHeadlines(src.Name, headlines.Len())
	return headlines, nil
}
