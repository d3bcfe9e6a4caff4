package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-headlines/models"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	ruleWidth       = 50
)

// WriteError wraps a filesystem failure while saving headlines.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// OutputWriter persists a finished headline collection.
type OutputWriter interface {
	Write(headlines models.HeadlineCollection) error
	Validate() error
}

var _ OutputWriter = (*TextWriter)(nil)

// TextWriter saves headlines as a numbered plain-text document.
type TextWriter struct {
	path string
	now  func() time.Time
}

// NewTextWriter returns a writer targeting path. The parent directory must exist.
func NewTextWriter(path string) *TextWriter {
	return &TextWriter{path: path, now: time.Now}
}

// Path returns the target file path.
func (tw *TextWriter) Path() string {
	return tw.path
}

// Write creates or truncates the target and writes the document.
// A crash mid-write can leave a partial file.
func (tw *TextWriter) Write(headlines models.HeadlineCollection) error {
	f, err := os.Create(tw.path)
	if err != nil {
		return &WriteError{Path: tw.path, Err: err}
	}

	buf := bufio.NewWriter(f)
	if err := RenderDocument(buf, headlines, tw.now()); err != nil {
		f.Close()
		return &WriteError{Path: tw.path, Err: err}
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return &WriteError{Path: tw.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: tw.path, Err: err}
	}
	return nil
}

// Validate ensures the written file has content.
func (tw *TextWriter) Validate() error {
	info, err := os.Stat(tw.path)
	if err != nil {
		return fmt.Errorf("stat output file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("output file is empty")
	}
	return nil
}

// RenderDocument writes the header, one numbered line per headline and the total.
func RenderDocument(w io.Writer, headlines models.HeadlineCollection, scrapedAt time.Time) error {
	if _, err := fmt.Fprintf(w, "News Headlines - Scraped on %s\n", scrapedAt.Format(timestampLayout)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", ruleWidth)); err != nil {
		return err
	}
	for i, headline := range headlines {
		if _, err := fmt.Fprintf(w, "%2d. %s\n", i+1, headline); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal headlines: %d\n", headlines.Len())
	return err
}
