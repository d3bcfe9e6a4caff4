package pipeline

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-headlines/models"
)

func TestRenderDocument(t *testing.T) {
	headlines := models.HeadlineCollection{
		"Apple unveils new laptop line",
		"Zebra crossing plans approved",
	}
	scrapedAt := time.Date(2025, 11, 4, 13, 9, 13, 0, time.UTC)

	var buf bytes.Buffer
	if err := RenderDocument(&buf, headlines, scrapedAt); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "News Headlines - Scraped on 2025-11-04 13:09:13\n" +
		"==================================================\n" +
		"\n" +
		" 1. Apple unveils new laptop line\n" +
		" 2. Zebra crossing plans approved\n" +
		"\n" +
		"Total headlines: 2\n"
	if got := buf.String(); got != want {
		t.Fatalf("document mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestTextWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "headlines.txt")

	const k = 12
	headlines := make([]string, 0, k)
	for i := 1; i <= k; i++ {
		headlines = append(headlines, fmt.Sprintf("Headline number %02d today", i))
	}

	writer := NewTextWriter(path)
	writer.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	if err := writer.Write(models.NewHeadlineCollection(headlines)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var numbered []string
	var last string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) > 3 && strings.Contains(line[:4], ". ") {
			numbered = append(numbered, line)
		}
		if line != "" {
			last = line
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(numbered) != k {
		t.Fatalf("numbered lines=%d, want %d", len(numbered), k)
	}
	if numbered[0] != " 1. Headline number 01 today" || numbered[k-1] != "12. Headline number 12 today" {
		t.Fatalf("unexpected numbering: first=%q last=%q", numbered[0], numbered[k-1])
	}
	if last != fmt.Sprintf("Total headlines: %d", k) {
		t.Fatalf("last line=%q", last)
	}
}

func TestTextWriterOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headlines.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale content\n", 100)), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	writer := NewTextWriter(path)
	if err := writer.Write(models.HeadlineCollection{"Fresh headline for today"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "stale content") {
		t.Fatalf("old content survived overwrite")
	}
	if !strings.HasSuffix(string(data), "Total headlines: 1\n") {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestTextWriterMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "headlines.txt")

	err := NewTextWriter(path).Write(models.HeadlineCollection{"Fresh headline for today"})
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected WriteError, got %v", err)
	}
	if writeErr.Path != path {
		t.Fatalf("path=%q, want %q", writeErr.Path, path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestDisplay(t *testing.T) {
	many := make([]string, 0, 20)
	for i := 1; i <= 20; i++ {
		many = append(many, fmt.Sprintf("Headline number %02d today", i))
	}

	tests := []struct {
		name      string
		headlines models.HeadlineCollection
		limit     int
		width     int
		contains  []string
		excludes  []string
	}{
		{
			name:      "empty",
			headlines: nil,
			limit:     10,
			contains:  []string{"No headlines available!"},
			excludes:  []string{"Top"},
		},
		{
			name:      "fewer than limit",
			headlines: models.NewHeadlineCollection(many[:3]),
			limit:     10,
			contains:  []string{"Top 3 Headlines:", " 3. Headline number 03 today"},
			excludes:  []string{"more headlines"},
		},
		{
			name:      "more than limit",
			headlines: models.NewHeadlineCollection(many),
			limit:     15,
			contains:  []string{"Top 15 Headlines:", "15. Headline number 15 today", "... and 5 more headlines"},
			excludes:  []string{"16. "},
		},
		{
			name:      "truncated",
			headlines: models.HeadlineCollection{"A rather long headline that will not fit"},
			limit:     10,
			width:     20,
			contains:  []string{" 1. A rather long..."},
			excludes:  []string{"will not fit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Display(&buf, tt.headlines, tt.limit, tt.width)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, out)
				}
			}
		})
	}
}
