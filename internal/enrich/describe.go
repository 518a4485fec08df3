package enrich

import (
	"context"
	"strings"

	"bibliomatch/internal/entity"
	"bibliomatch/internal/metrics"

	"github.com/rs/zerolog"
)

// locator is one fallback tier: it attempts to produce a value (a work
// identifier or the text itself, depending on the provider) where empty
// means "nothing found". Tiers run strictly in order; a tier must finish
// before the next is attempted because its outcome decides whether the next
// runs at all.
type locator struct {
	name string
	find func(ctx context.Context) (string, error)
}

// firstLocated runs locators in order and returns the first non-empty value.
// Tier failures fall through silently; failed reports whether any tier hit a
// transport error, which decides the terminal sentinel.
func firstLocated(ctx context.Context, tiers []locator, m *metrics.Metrics, log zerolog.Logger) (value string, failed bool) {
	for _, t := range tiers {
		v, err := t.find(ctx)
		if err != nil {
			failed = true
			m.IncDescribeTier(t.name, "failure")
			log.Debug().Err(err).Str("tier", t.name).Msg("description tier failed")
			continue
		}
		if v == "" {
			m.IncDescribeTier(t.name, "miss")
			continue
		}
		m.IncDescribeTier(t.name, "hit")
		return v, failed
	}
	return "", failed
}

// OpenLibraryClient is the slice of the Open Library client the describer
// needs: two ways to locate a work, one way to read its description.
type OpenLibraryClient interface {
	WorkByISBN(ctx context.Context, isbn string) (string, error)
	WorkByTitle(ctx context.Context, title string) (string, error)
	Description(ctx context.Context, workID string) (string, error)
}

// OpenLibraryDescriber resolves descriptions through Open Library work
// records: ISBN lookup first, title search second, then one description
// fetch for whichever tier located a work. At most three provider calls.
type OpenLibraryDescriber struct {
	client  OpenLibraryClient
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewOpenLibraryDescriber creates the default describer.
func NewOpenLibraryDescriber(client OpenLibraryClient, m *metrics.Metrics, log zerolog.Logger) *OpenLibraryDescriber {
	return &OpenLibraryDescriber{client: client, metrics: m, log: log}
}

// Describe resolves the description for book. ISBN precedence over title is
// load-bearing: a book with a correct ISBN must hit its exact edition's work
// before any fuzzy title match is consulted.
func (d *OpenLibraryDescriber) Describe(ctx context.Context, book entity.Book) string {
	log := d.log.With().Str("title", book.Title).Logger()

	var tiers []locator
	if isbn := strings.TrimSpace(book.ISBN); isbn != "" {
		tiers = append(tiers, locator{
			name: "isbn",
			find: func(ctx context.Context) (string, error) {
				return d.client.WorkByISBN(ctx, isbn)
			},
		})
	}
	if title := strings.TrimSpace(book.Title); title != "" {
		tiers = append(tiers, locator{
			name: "title",
			find: func(ctx context.Context) (string, error) {
				return d.client.WorkByTitle(ctx, title)
			},
		})
	}

	workID, failed := firstLocated(ctx, tiers, d.metrics, log)
	if workID == "" {
		return d.sentinel(failed)
	}

	text, err := d.client.Description(ctx, workID)
	if err != nil {
		d.metrics.IncDescribeTier("work", "failure")
		log.Debug().Err(err).Str("work_id", workID).Msg("work fetch failed")
		return d.sentinel(true)
	}
	if text == "" {
		d.metrics.IncDescribeTier("work", "miss")
		return d.sentinel(failed)
	}

	d.metrics.IncDescribeTier("work", "hit")
	return text
}

func (d *OpenLibraryDescriber) sentinel(failed bool) string {
	if failed {
		d.metrics.IncSentinel("unreachable")
		return ArchivesUnreachableText
	}
	d.metrics.IncSentinel("no_description")
	return NoDescriptionText
}

// GoogleBooksClient is the slice of the Google Books client the describer
// needs. Volume lookups return the description directly.
type GoogleBooksClient interface {
	DescriptionByISBN(ctx context.Context, isbn string) (string, error)
	DescriptionByTitle(ctx context.Context, title string) (string, error)
}

// GoogleBooksDescriber resolves descriptions from Google Books volumes:
// ISBN query first, intitle query second. At most two provider calls.
type GoogleBooksDescriber struct {
	client  GoogleBooksClient
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewGoogleBooksDescriber creates the alternate describer.
func NewGoogleBooksDescriber(client GoogleBooksClient, m *metrics.Metrics, log zerolog.Logger) *GoogleBooksDescriber {
	return &GoogleBooksDescriber{client: client, metrics: m, log: log}
}

// Describe resolves the description for book, ISBN before title.
func (d *GoogleBooksDescriber) Describe(ctx context.Context, book entity.Book) string {
	log := d.log.With().Str("title", book.Title).Logger()

	var tiers []locator
	if isbn := strings.TrimSpace(book.ISBN); isbn != "" {
		tiers = append(tiers, locator{
			name: "isbn",
			find: func(ctx context.Context) (string, error) {
				return d.client.DescriptionByISBN(ctx, isbn)
			},
		})
	}
	if title := strings.TrimSpace(book.Title); title != "" {
		tiers = append(tiers, locator{
			name: "title",
			find: func(ctx context.Context) (string, error) {
				return d.client.DescriptionByTitle(ctx, title)
			},
		})
	}

	text, failed := firstLocated(ctx, tiers, d.metrics, log)
	if text != "" {
		return text
	}
	if failed {
		d.metrics.IncSentinel("unreachable")
		return ArchivesUnreachableText
	}
	d.metrics.IncSentinel("no_description")
	return NoDescriptionText
}
