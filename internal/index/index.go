package index

// PostIndex defines the interface for post indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type PostIndex interface {
	UpsertPost(p PostRow) error
	DeletePost(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	Posts(includeDrafts bool) ([]PostRow, error)
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies PostIndex at compile time.
var _ PostIndex = (*DB)(nil)
