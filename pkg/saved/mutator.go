// Package saved implements the save/unsave-book flow: the mutation is
// issued first, then the cached profile is replaced with a fresh server
// read so dependent state reflects what the server actually did, never a
// locally guessed membership.
package saved

import (
	"context"
	"log/slog"

	"bookoracle/pkg/domain"
	"bookoracle/pkg/session"
)

// Toggler is the slice of the API client the mutator needs.
type Toggler interface {
	ToggleSaveBook(ctx context.Context, id int64) (string, error)
	CurrentUser(ctx context.Context) (domain.User, error)
}

// Result reports a completed toggle. ProfileStale is set when the mutation
// succeeded but the follow-up profile resync failed: the server state
// changed, the local cache did not, and the next successful refetch heals
// it.
type Result struct {
	Message      string
	ProfileStale bool
}

// Mutator coordinates the toggle mutation with the profile resync.
type Mutator struct {
	client   Toggler
	sessions session.Store
	logger   *slog.Logger
}

// NewMutator wires the mutator to the API client and session store.
func NewMutator(client Toggler, sessions session.Store, logger *slog.Logger) *Mutator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mutator{client: client, sessions: sessions, logger: logger}
}

// ToggleSave flips the saved state of bookID on the server, then refetches
// the profile and replaces the cache with the authoritative view. On
// mutation failure the cache is untouched and the failure is returned
// verbatim. A resync failure after a successful mutation still reports
// success, flagged stale.
func (m *Mutator) ToggleSave(ctx context.Context, bookID int64) (Result, error) {
	message, err := m.client.ToggleSaveBook(ctx, bookID)
	if err != nil {
		return Result{}, err
	}

	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.logger.Warn("profile resync failed after toggle; cache is stale",
			"book_id", bookID, "err", err)
		return Result{Message: message, ProfileStale: true}, nil
	}
	if err := m.sessions.UpdateProfile(ctx, user); err != nil {
		m.logger.Warn("profile cache write failed after toggle",
			"book_id", bookID, "err", err)
		return Result{Message: message, ProfileStale: true}, nil
	}
	return Result{Message: message}, nil
}

// RefreshProfile re-reads the authoritative profile into the cache. It is
// the explicit recovery path for a stale cache.
func (m *Mutator) RefreshProfile(ctx context.Context) (domain.User, error) {
	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if err := m.sessions.UpdateProfile(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
