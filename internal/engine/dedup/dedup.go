package dedup

// Deduplicator tracks normalized texts already admitted to a corpus.
// The first occurrence of a text wins; later ones are duplicates.
type Deduplicator struct {
	seen map[string]struct{}
}

// New creates an empty Deduplicator.
func New() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Keep records an occurrence of text and reports whether it is the first.
func (d *Deduplicator) Keep(text string) bool {
	if _, ok := d.seen[text]; ok {
		return false
	}
	d.seen[text] = struct{}{}
	return true
}
