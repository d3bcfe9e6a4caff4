package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-headlines/models"
)

// Config holds scraper configuration.
type Config struct {
	Primary          models.Source
	Fallback         models.Source
	Timeout          time.Duration
	UserAgent        string
	OutputFile       string
	DisplayLimit     int
	DisplayWidth     int // 0 disables truncation
	DedupeMaxSize    int // duplicate-check cache entries, never a cap on headlines
	FallbackOnEmpty  bool
	RespectRobotsTxt bool
	Verbose          bool
	MetricsAddr      string
}

// DefaultConfig returns the built-in BBC/Reuters setup.
func DefaultConfig() *Config {
	return &Config{
		Primary:          DefaultPrimary(),
		Fallback:         DefaultFallback(),
		Timeout:          10 * time.Second,
		UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		OutputFile:       "news_headlines.txt",
		DisplayLimit:     15,
		DisplayWidth:     0,
		DedupeMaxSize:    10000,
		FallbackOnEmpty:  true,
		RespectRobotsTxt: false,
		Verbose:          false,
	}
}

// DefaultPrimary is the BBC News homepage.
func DefaultPrimary() models.Source {
	return models.Source{
		Name: "bbc",
		URL:  "https://www.bbc.com/news",
		Selectors: []models.Selector{
			models.CSS(`h2[data-testid="card-headline"]`),
			models.CSS(`h3[data-testid="card-headline"]`),
			models.CSS(`h2.sc-4fedabc7-3`),
			models.CSS(`h3.sc-4fedabc7-3`),
			models.CSS(`.media__title a`),
			models.CSS(`.gs-c-promo-heading__title`),
		},
	}
}

// DefaultFallback is the Reuters homepage.
func DefaultFallback() models.Source {
	return models.Source{
		Name: "reuters",
		URL:  "https://www.reuters.com",
		Selectors: []models.Selector{
			models.CSS(`h3[data-testid="Heading"]`),
			models.CSS(`.story-title`),
			models.CSS(`h3.text__text__1FZLe`),
			models.CSS(`a[data-testid="Heading"]`),
		},
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if err := validateSource("primary", c.Primary); err != nil {
		return err
	}
	if err := validateSource("fallback", c.Fallback); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.DisplayLimit < 0 {
		return fmt.Errorf("display limit cannot be negative")
	}
	if c.DisplayWidth < 0 {
		return fmt.Errorf("display width cannot be negative")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	return nil
}

func validateSource(role string, src models.Source) error {
	if src.URL == "" {
		return fmt.Errorf("%s source URL cannot be empty", role)
	}
	parsedURL, err := url.Parse(src.URL)
	if err != nil {
		return fmt.Errorf("invalid %s source URL: %w", role, err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s source URL must include a host", role)
	}
	if len(src.Selectors) == 0 {
		return fmt.Errorf("%s source needs at least one selector", role)
	}
	for i, sel := range src.Selectors {
		if strings.TrimSpace(sel.Pattern) == "" {
			return fmt.Errorf("%s source selector %d is empty", role, i)
		}
		switch sel.Kind {
		case models.SelectorCSS, models.SelectorXPath:
		default:
			return fmt.Errorf("%s source selector %d has unknown kind %q", role, i, sel.Kind)
		}
	}
	return nil
}

// EnvString returns the trimmed value of key when it is set and non-empty.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt parses key as an integer when it is set.
func EnvInt(key string) (int, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return n, true, nil
}
