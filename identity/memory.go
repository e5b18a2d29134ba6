package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryDirectory is a process-local Directory for tests, demos and the
// seeded development server.
type MemoryDirectory struct {
	mu    sync.RWMutex
	byID  map[string]Identity
	order []string
}

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{byID: make(map[string]Identity)}
}

// Add stores ident, assigning an ID and timestamps when missing, and returns
// the stored copy.
func (d *MemoryDirectory) Add(ident Identity) (Identity, error) {
	if ident.Email == "" {
		return Identity{}, errors.New("identity email must not be empty")
	}
	if ident.ID == "" {
		ident.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ident.CreatedAt.IsZero() {
		ident.CreatedAt = now
	}
	if ident.UpdatedAt.IsZero() {
		ident.UpdatedAt = ident.CreatedAt
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.byID[ident.ID]; dup {
		return Identity{}, errors.New("identity id already exists")
	}
	d.byID[ident.ID] = ident
	d.order = append(d.order, ident.ID)
	return ident, nil
}

// FindByEmail returns matches in insertion order.
func (d *MemoryDirectory) FindByEmail(_ context.Context, email string) ([]Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []Identity
	for _, id := range d.order {
		if ident := d.byID[id]; ident.Email == email {
			out = append(out, ident)
		}
	}
	return out, nil
}

// FindByID returns a copy of the identity or ErrNotFound.
func (d *MemoryDirectory) FindByID(_ context.Context, id string) (*Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ident, ok := d.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ident, nil
}

// Count returns the number of stored identities.
func (d *MemoryDirectory) Count(context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.byID)), nil
}
