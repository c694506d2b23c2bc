package credentials

import (
	"context"
	"sync"
)

// MemoryRepository keeps credentials for the lifetime of the process only.
// It is used when no database path is configured.
type MemoryRepository struct {
	mu    sync.Mutex
	creds Credentials
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(_ context.Context) (Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Credentials{
		AccessToken:  r.creds.AccessToken,
		RefreshToken: r.creds.RefreshToken,
		User:         append([]byte(nil), r.creds.User...),
	}, nil
}

func (r *MemoryRepository) Save(_ context.Context, c Credentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds = Credentials{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		User:         append([]byte(nil), c.User...),
	}
	return nil
}

func (r *MemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds = Credentials{}
	return nil
}
