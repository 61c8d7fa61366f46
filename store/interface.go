package store

import "context"

// SessionStore is key-value storage partitioned by session id. It plays the
// role of the browser's per-tab sessionStorage for a server-side session.
type SessionStore interface {
	GetItem(ctx context.Context, sessionID, key string) (string, bool, error)
	SetItem(ctx context.Context, sessionID, key, value string) error
	RemoveItem(ctx context.Context, sessionID, key string) error
	Clear(ctx context.Context, sessionID string) error

	Close() error
}

// Scoped binds a SessionStore to one session id.
type Scoped struct {
	Store     SessionStore
	SessionID string
}

// Scope returns the storage view of one session.
func Scope(s SessionStore, sessionID string) Scoped {
	return Scoped{Store: s, SessionID: sessionID}
}

func (s Scoped) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.Store.GetItem(ctx, s.SessionID, key)
}

func (s Scoped) SetItem(ctx context.Context, key, value string) error {
	return s.Store.SetItem(ctx, s.SessionID, key, value)
}

func (s Scoped) RemoveItem(ctx context.Context, key string) error {
	return s.Store.RemoveItem(ctx, s.SessionID, key)
}
