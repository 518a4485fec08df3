package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"bibliomatch/internal/entity"
)

// User-facing failure messages. Resolution failures are short and specific;
// enrichment never surfaces errors at all.
const (
	msgNotFound    = "We couldn't find a book close to that title. Check your spelling!"
	msgUnreachable = "The library archives are currently unreachable."
)

func renderStars(rating float64) string {
	stars := int(math.Round(rating))
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

func printBook(w io.Writer, b entity.Book, coverURL string) {
	author := b.Author
	if author == "" {
		author = "unknown"
	}
	fmt.Fprintf(w, "  %s by %s  %s (%.1f)\n", b.Title, author, renderStars(b.Rating), b.Rating)
	if coverURL != "" {
		fmt.Fprintf(w, "      cover: %s\n", coverURL)
	}
}
