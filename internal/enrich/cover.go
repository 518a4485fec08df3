package enrich

import (
	"fmt"

	"bibliomatch/internal/entity"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CoverSize is the cover image size token understood by the cover provider.
type CoverSize string

// Cover sizes: medium for grids, large for detail views.
const (
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// failedURLCacheSize bounds how many known-bad URLs are remembered.
const failedURLCacheSize = 512

// CoverResolver produces cover image URLs through an ordered fallback
// chain: the provider's ISBN-keyed template, the book's original image URL,
// then a fixed placeholder. The provider signals failure only by the image
// failing to load, so the rendering layer reports failures back through
// MarkFailed and asks again; a URL marked failed is never offered twice.
type CoverResolver struct {
	baseURL        string
	placeholderURL string
	failed         *lru.Cache[string, struct{}]
}

// NewCoverResolver creates a cover resolver.
func NewCoverResolver(baseURL, placeholderURL string) (*CoverResolver, error) {
	failed, err := lru.New[string, struct{}](failedURLCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create failed-url cache: %w", err)
	}
	return &CoverResolver{
		baseURL:        baseURL,
		placeholderURL: placeholderURL,
		failed:         failed,
	}, nil
}

// Candidates returns the ordered, deduplicated fallback chain for book.
// The placeholder is always last and always present.
func (r *CoverResolver) Candidates(book entity.Book, size CoverSize) []string {
	var urls []string
	if book.ISBN != "" {
		urls = append(urls, fmt.Sprintf("%s/b/isbn/%s-%s.jpg?default=false", r.baseURL, book.ISBN, size))
	}
	if book.OriginalImageURL != "" && (len(urls) == 0 || book.OriginalImageURL != urls[0]) {
		urls = append(urls, book.OriginalImageURL)
	}
	return append(urls, r.placeholderURL)
}

// URL returns the first candidate not known to have failed. The placeholder
// is returned unconditionally as the last resort, so the chain terminates
// even when everything has been marked.
func (r *CoverResolver) URL(book entity.Book, size CoverSize) string {
	candidates := r.Candidates(book, size)
	for _, u := range candidates[:len(candidates)-1] {
		if _, bad := r.failed.Get(u); !bad {
			return u
		}
	}
	return r.placeholderURL
}

// MarkFailed records a render-time load failure for url. Marking the
// placeholder is ignored; it must stay offerable.
func (r *CoverResolver) MarkFailed(url string) {
	if url == "" || url == r.placeholderURL {
		return
	}
	r.failed.Add(url, struct{}{})
}
