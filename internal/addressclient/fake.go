package addressclient

import (
	"context"
	"sync"

	"blogmesh/internal/dto"
)

// Fake is an in-memory Client for tests and local runs without the address service.
type Fake struct {
	mu        sync.Mutex
	addresses map[uint]dto.Address
	// Err, when set, is returned by every call.
	Err error
	// DeleteErr, when set, is returned by DeleteByUserID only.
	DeleteErr error
	Deleted   []uint
	Calls     int
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{addresses: make(map[uint]dto.Address)}
}

// Put stores an address for userID.
func (f *Fake) Put(userID uint, addr dto.Address) {
	f.mu.Lock()
	defer f.mu.Unlock()
	addr.UserID = userID
	f.addresses[userID] = addr
}

func (f *Fake) GetByUserID(_ context.Context, userID uint) (*dto.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	addr, ok := f.addresses[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &addr, nil
}

func (f *Fake) DeleteByUserID(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return f.Err
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.addresses[userID]; !ok {
		return ErrNotFound
	}
	delete(f.addresses, userID)
	f.Deleted = append(f.Deleted, userID)
	return nil
}

var _ Client = (*Fake)(nil)
var _ Client = (*HTTPClient)(nil)
