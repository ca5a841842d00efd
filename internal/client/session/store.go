package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/repositories/state"
	"github.com/dmitrijs2005/penaltybox/internal/common"
	"github.com/dmitrijs2005/penaltybox/internal/dbx"
)

// Snapshot is the durable part of a session. An empty Token or nil User
// means that half is absent.
type Snapshot struct {
	Token string
	User  *models.User
}

// Store persists the session between runs. Token is read by the API client
// on every request, so it must reflect the latest Save or Clear.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
	Token(ctx context.Context) (string, error)
}

// SQLiteStore keeps the token and the JSON user under the "token" and
// "user" keys of the client_state table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	repo := state.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, common.TokenKey)
	if err != nil {
		return Snapshot{}, err
	}
	raw, err := repo.Get(ctx, common.UserKey)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Token: string(token)}
	if len(raw) > 0 {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return snap, fmt.Errorf("decode stored user: %w", err)
		}
		snap.User = &u
	}
	return snap, nil
}

// Save writes both keys in one transaction. A nil User removes the stored one.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	var raw []byte
	if snap.User != nil {
		b, err := json.Marshal(snap.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		raw = b
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		if snap.Token == "" {
			if err := repo.Delete(ctx, common.TokenKey); err != nil {
				return err
			}
		} else if err := repo.Set(ctx, common.TokenKey, []byte(snap.Token)); err != nil {
			return err
		}
		if raw == nil {
			return repo.Delete(ctx, common.UserKey)
		}
		return repo.Set(ctx, common.UserKey, raw)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.UserKey)
	})
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	token, err := state.NewSQLiteRepository(s.db).Get(ctx, common.TokenKey)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// MemoryStore is a Store that lives as long as the process.
type MemoryStore struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Token: m.snap.Token, User: copyUser(m.snap.User)}, nil
}

func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = Snapshot{Token: snap.Token, User: copyUser(snap.User)}
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = Snapshot{}
	return nil
}

func (m *MemoryStore) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.Token, nil
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.GroupID != nil {
		g := *u.GroupID
		c.GroupID = &g
	}
	return &c
}
