package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"bookoracle/pkg/domain"
)

// Fixed logical keys for the persisted session fields.
const (
	keyAccess  = "access"
	keyRefresh = "refresh"
	keyUser    = "user"
)

// SQLiteStore keeps the session in a small key/value table inside a file
// database so that it survives restarts until explicit logout.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the session database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save persists credentials and profile together.
func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	profile, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session save: %w", err)
	}
	defer tx.Rollback()
	for key, value := range map[string]string{
		keyAccess:  sess.AccessToken,
		keyRefresh: sess.RefreshToken,
		keyUser:    string(profile),
	} {
		if err := setTx(ctx, tx, key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Current returns the stored session. Missing or partial state yields
// ErrNoSession.
func (s *SQLiteStore) Current(ctx context.Context) (Session, error) {
	access, err := s.get(ctx, keyAccess)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.get(ctx, keyRefresh)
	if err != nil {
		return Session{}, err
	}
	rawUser, err := s.get(ctx, keyUser)
	if err != nil {
		return Session{}, err
	}
	if access == "" || refresh == "" || rawUser == "" {
		return Session{}, ErrNoSession
	}
	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		// Treat an undecodable profile as an absent session rather than
		// blocking every subsequent call.
		return Session{}, ErrNoSession
	}
	return Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// SetAccessToken replaces only the access credential, leaving the refresh
// credential and cached profile untouched.
func (s *SQLiteStore) SetAccessToken(ctx context.Context, access string) error {
	return s.set(ctx, keyAccess, access)
}

// UpdateProfile replaces only the cached profile.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, user domain.User) error {
	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.set(ctx, keyUser, string(profile))
}

// Clear removes all session state.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("write session[%s]: %w", key, err)
	}
	return nil
}

func setTx(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("write session[%s]: %w", key, err)
	}
	return nil
}
