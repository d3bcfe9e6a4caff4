package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/aluiziolira/go-scrape-headlines/models"
	"github.com/mattn/go-runewidth"
)

// Display prints up to limit headlines with 1-based numbering, followed by a
// count of the ones left out. width > 0 truncates each line to that many
// terminal columns.
func Display(w io.Writer, headlines models.HeadlineCollection, limit, width int) {
	if headlines.Len() == 0 {
		fmt.Fprintln(w, "No headlines available!")
		return
	}

	shown := min(max(limit, 0), headlines.Len())
	fmt.Fprintf(w, "\nTop %d Headlines:\n", shown)
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))

	for i, headline := range headlines[:shown] {
		line := fmt.Sprintf("%2d. %s", i+1, headline)
		if width > 0 {
			line = runewidth.Truncate(line, width, "...")
		}
		fmt.Fprintln(w, line)
	}

	if rest := headlines.Len() - shown; rest > 0 {
		fmt.Fprintf(w, "\n... and %d more headlines\n", rest)
	}
}
