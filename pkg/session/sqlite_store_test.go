package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bookoracle/pkg/domain"
)

func openTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func testSession() Session {
	return Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User: domain.User{
			ID:         7,
			Email:      "u@example.com",
			SavedBooks: []int64{1, 2},
		},
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("empty store should report ErrNoSession, got %v", err)
	}
	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	sess, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if sess.AccessToken != "access-1" || sess.RefreshToken != "refresh-1" {
		t.Fatalf("credentials not round-tripped: %+v", sess)
	}
	if sess.User.Email != "u@example.com" || len(sess.User.SavedBooks) != 2 {
		t.Fatalf("profile not round-tripped: %+v", sess.User)
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	sess, err := reopened.Current(ctx)
	if err != nil {
		t.Fatalf("current after reopen: %v", err)
	}
	if sess.AccessToken != "access-1" {
		t.Fatalf("session lost across reopen: %+v", sess)
	}
}

func TestSetAccessTokenLeavesRestAlone(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SetAccessToken(ctx, "access-2"); err != nil {
		t.Fatalf("set access token: %v", err)
	}
	sess, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if sess.AccessToken != "access-2" {
		t.Fatalf("access not replaced: %q", sess.AccessToken)
	}
	if sess.RefreshToken != "refresh-1" || sess.User.ID != 7 {
		t.Fatalf("refresh or profile changed: %+v", sess)
	}
}

func TestUpdateProfileLeavesCredentialsAlone(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.UpdateProfile(ctx, domain.User{ID: 7, Email: "u@example.com", SavedBooks: []int64{1, 2, 3}}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	sess, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if len(sess.User.SavedBooks) != 3 {
		t.Fatalf("profile not replaced: %+v", sess.User)
	}
	if sess.AccessToken != "access-1" || sess.RefreshToken != "refresh-1" {
		t.Fatalf("credentials changed: %+v", sess)
	}
}

func TestPartialSessionReportsAbsent(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	// Only an access token written, no refresh token or profile.
	if err := store.SetAccessToken(ctx, "orphan"); err != nil {
		t.Fatalf("set access token: %v", err)
	}
	if _, err := store.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("partial session must degrade to absent, got %v", err)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("cleared store should report ErrNoSession, got %v", err)
	}
}

func TestMemoryStoreMatchesContract(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if _, err := store.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("empty memory store should report ErrNoSession, got %v", err)
	}
	if err := store.Save(ctx, testSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SetAccessToken(ctx, "access-2"); err != nil {
		t.Fatalf("set access token: %v", err)
	}
	sess, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if sess.AccessToken != "access-2" || sess.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("cleared memory store should report ErrNoSession, got %v", err)
	}
}
