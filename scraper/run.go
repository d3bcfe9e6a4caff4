package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-headlines/models"
	"github.com/aluiziolira/go-scrape-headlines/parser"
)

type state int

const (
	stateTryPrimary state = iota
	stateTryFallback
	stateSuccess
	stateFailure
)

func (s state) String() string {
	switch s {
	case stateTryPrimary:
		return "try_primary"
	case stateTryFallback:
		return "try_fallback"
	case stateSuccess:
		return "success"
	case stateFailure:
		return "failure"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Run scrapes the primary source and, if that attempt fails, the fallback.
// The first source to succeed provides the whole result; results are never merged.
// When both fail, the returned error wraps ErrAllSourcesFailed and every attempt's error.
func (s *Scraper) Run(ctx context.Context) (*models.ScrapeResult, error) {
	result := &models.ScrapeResult{StartTime: time.Now()}
	st := stateTryPrimary

	for {
		switch st {
		case stateTryPrimary, stateTryFallback:
			src, ext := s.cfg.Primary, s.primary
			if st == stateTryFallback {
				src, ext = s.cfg.Fallback, s.fallback
			}

			headlines, err := s.attempt(ctx, result, src, ext)
			next := s.transition(ctx, st, err)
			slog.Debug("source selection",
				slog.String("from", st.String()),
				slog.String("to", next.String()),
			)
			if next == stateSuccess {
				result.Source = src.Name
				result.URL = src.URL
				result.Headlines = headlines
			} else if next == stateTryFallback {
				slog.Warn("primary source failed, trying fallback",
					slog.String("fallback", s.cfg.Fallback.URL),
					slog.Any("error", err),
				)
			}
			st = next

		case stateSuccess:
			result.EndTime = time.Now()
			return result, nil

		case stateFailure:
			result.EndTime = time.Now()
			errs := []error{ErrAllSourcesFailed}
			for _, a := range result.Attempts {
				errs = append(errs, fmt.Errorf("%s: %w", a.Source, a.Err))
			}
			return result, errors.Join(errs...)
		}
	}
}

// transition picks the next state from the outcome of an attempt.
// A cancelled run never moves on to the fallback.
func (s *Scraper) transition(ctx context.Context, from state, err error) state {
	if err == nil {
		return stateSuccess
	}
	if from == stateTryPrimary && ctx.Err() == nil {
		return stateTryFallback
	}
	return stateFailure
}

// attempt scrapes one source, records it on result and applies the empty-extraction policy.
func (s *Scraper) attempt(ctx context.Context, result *models.ScrapeResult, src models.Source, ext *parser.Extractor) (models.HeadlineCollection, error) {
	start := time.Now()
	headlines, err := s.scrapeSource(ctx, src, ext)
	if err == nil && headlines.Len() == 0 && s.cfg.FallbackOnEmpty {
		err = fmt.Errorf("%s: %w", src.URL, ErrNoHeadlines)
	}

	result.Attempts = append(result.Attempts, models.Attempt{
		Source:    src.Name,
		URL:       src.URL,
		Headlines: headlines.Len(),
		Err:       err,
		Duration:  time.Since(start),
	})

	if err != nil {
		label := ErrorTypeLabel(err)
		s.Metrics.IncError(label)
		s.Metrics.IncOutcome(src.Name, "failure")
		slog.Error("source failed",
			slog.String("source", src.Name),
			slog.String("url", src.URL),
			slog.String("category", label),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.Metrics.IncOutcome(src.Name, "success")
	return headlines, nil
}
