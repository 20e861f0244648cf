package persist

const (
	// DefaultKeyPrefix namespaces every key this application writes
	DefaultKeyPrefix = "shelf:"
	// KeyBooks holds the JSON array of books
	KeyBooks = "books"
	// KeyReadingDates holds the JSON array of YYYY-MM-DD strings
	KeyReadingDates = "reading-dates"
	// KeySeeded holds the JSON array of title+author keys the seed reloader has imported
	KeySeeded = "seeded"
)

// Keys resolves the storage keys for one namespace
type Keys struct {
	prefix string
}

// NewKeys creates key helpers for prefix (DefaultKeyPrefix when empty)
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Keys{prefix: prefix}
}

// Books returns the key for the book list
func (k Keys) Books() string {
	return k.prefix + KeyBooks
}

// ReadingDates returns the key for the reading-date set
func (k Keys) ReadingDates() string {
	return k.prefix + KeyReadingDates
}

// Seeded returns the key for the seed reloader's import ledger
func (k Keys) Seeded() string {
	return k.prefix + KeySeeded
}

// Prefix returns the namespace prefix
func (k Keys) Prefix() string {
	return k.prefix
}
