package entity

// Book is the canonical identity of a book as known to the recommendation
// service. JSON field names follow the service wire format.
type Book struct {
	Title            string  `json:"title"`
	Author           string  `json:"author,omitempty"`
	ISBN             string  `json:"isbn,omitempty"`
	Rating           float64 `json:"rating,omitempty"`
	OriginalImageURL string  `json:"original_img,omitempty"`
}

// Key returns the comparable identity of a book. Two books with equal keys
// are the same book everywhere in the system, even when ISBN or author
// differ. The catalog behind the recommendation service keys on title, so
// identity stays title-only; if that ever becomes (title, isbn), this is
// the only place to change.
func (b Book) Key() string {
	return b.Title
}

// Same reports whether two books share the same identity key.
func (b Book) Same(other Book) bool {
	return b.Key() == other.Key()
}
