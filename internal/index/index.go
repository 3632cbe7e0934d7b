package index

// PostIndex defines the interface for processed-post indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type PostIndex interface {
	UpsertPost(p PostRow, body string) error
	DeletePost(slug string) error
	DeleteBySourcePath(path string) (string, error)
	GetPost(slug string) (*PostRow, error)
	SlugForPath(path string) (string, error)
	ListPosts(limit, offset int, tag, sort string) ([]PostRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies PostIndex at compile time.
var _ PostIndex = (*DB)(nil)
