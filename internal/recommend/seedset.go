package recommend

// MaxSeeds is the most titles a seed set may hold.
const MaxSeeds = 5

// SeedSet is an ordered collection of up to MaxSeeds distinct canonical
// titles. It has value semantics: mutating operations return a new set and
// leave the receiver untouched, so callers own their copy and updates stay
// composable.
type SeedSet struct {
	titles []string
}

// NewSeedSet builds a seed set from titles, dropping duplicates and
// truncating at MaxSeeds. Order is preserved.
func NewSeedSet(titles ...string) SeedSet {
	var s SeedSet
	for _, t := range titles {
		if s.Full() || s.Contains(t) {
			continue
		}
		s.titles = append(s.titles, t)
	}
	return s
}

// Titles returns a copy of the seeded titles in insertion order.
func (s SeedSet) Titles() []string {
	out := make([]string, len(s.titles))
	copy(out, s.titles)
	return out
}

// Len returns the number of seeded titles.
func (s SeedSet) Len() int {
	return len(s.titles)
}

// Full reports whether the set is at capacity.
func (s SeedSet) Full() bool {
	return len(s.titles) >= MaxSeeds
}

// Contains reports whether title is already seeded. Comparison is exact and
// case-sensitive: seeds hold canonical titles, so spelling variants have
// already been normalized away by resolution.
func (s SeedSet) Contains(title string) bool {
	for _, t := range s.titles {
		if t == title {
			return true
		}
	}
	return false
}

// With returns a new set with title appended. It does not check capacity or
// duplicates; AddSeed on the service is the guarded entry point.
func (s SeedSet) With(title string) SeedSet {
	titles := make([]string, len(s.titles), len(s.titles)+1)
	copy(titles, s.titles)
	return SeedSet{titles: append(titles, title)}
}

// Without returns a new set with every occurrence of title removed.
// Removing an absent title returns an equal set.
func (s SeedSet) Without(title string) SeedSet {
	titles := make([]string, 0, len(s.titles))
	for _, t := range s.titles {
		if t != title {
			titles = append(titles, t)
		}
	}
	return SeedSet{titles: titles}
}
