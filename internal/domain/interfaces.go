package domain

import "context"

// ContentAPI is the remote content service. Three operation shapes only;
// wire format and transport are the client's concern.
type ContentAPI interface {
	// GetProject returns the sparse navigation index for one project:
	// seasons with episode stubs, no playable or progress data.
	GetProject(ctx context.Context, slug string) (*Project, error)

	// GetEpisodes returns full episode records for the given guids.
	// Guids the service cannot resolve are omitted, not errors.
	GetEpisodes(ctx context.Context, guids []string) ([]Episode, error)

	// GetFreshBundle returns a self-contained project + episodes + positions
	// response, trusted as fresher than any cache entry.
	GetFreshBundle(ctx context.Context, slug string) (*Bundle, error)
}

// Backend is the key-value persistence the cache layer sits on.
// Single-key get/put/delete only: no transactions, no partial merge.
// Expiration is the cache layer's concern, not the backend's.
type Backend interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	DeletePrefix(prefix string) error
	ForEachPrefix(prefix string, fn func(key string, value []byte) error) error
	Clear() error
	Close() error
}
