package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"bookoracle/pkg/domain"
	"bookoracle/pkg/session"
)

func TestLoginSavesFullSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login/" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email != "u@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access":  "access-1",
			"refresh": "refresh-1",
			"user":    domain.User{ID: 7, Email: req.Email, Username: "reader"},
		})
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	client := newTestClient(store, srv)
	user, err := client.Login(context.Background(), "u@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("expected user 7, got %d", user.ID)
	}
	sess, err := store.Current(context.Background())
	if err != nil {
		t.Fatalf("session after login: %v", err)
	}
	if sess.AccessToken != "access-1" || sess.RefreshToken != "refresh-1" || sess.User.Email != "u@example.com" {
		t.Fatalf("session not fully persisted: %+v", sess)
	}
}

func TestLoginRejectionLeavesNoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	client := newTestClient(store, srv)
	_, err := client.Login(context.Background(), "u@example.com", "wrong")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Fatalf("expected server-sourced message, got %v", err)
	}
	if _, err := store.Current(context.Background()); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("no session should exist after rejected login, got %v", err)
	}
}

func TestExploreQueryEncoding(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_ = json.NewEncoder(w).Encode(domain.ExplorePage{})
	}))
	defer srv.Close()

	client := newTestClient(session.NewMemoryStore(), srv)
	_, err := client.ExploreBooks(context.Background(), ExploreParams{
		Offset: 20,
		Limit:  10,
		Filters: ExploreFilters{
			Genre:         "Fantasy",
			PublishedYear: "1999",
		},
	})
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	want := map[string][]string{
		"offset":         {"20"},
		"limit":          {"10"},
		"genre":          {"Fantasy"},
		"published_year": {"1999"},
	}
	if !reflect.DeepEqual(query, want) {
		t.Fatalf("unexpected query: got %v want %v", query, want)
	}
}

func TestNormalizeBookFields(t *testing.T) {
	fields := map[string]any{
		"title":       "Dune",
		"buyNowUrl":   "https://shop.example/dune",
		"previewUrl":  "https://preview.example/dune",
		"downloadUrl": "https://dl.example/dune",
	}
	got := normalizeBookFields(fields)
	for _, alternate := range []string{"buyNowUrl", "previewUrl", "downloadUrl"} {
		if _, ok := got[alternate]; ok {
			t.Fatalf("alternate key %q not stripped", alternate)
		}
	}
	if got["buy_now_url"] != "https://shop.example/dune" {
		t.Fatalf("buy_now_url not normalized: %v", got["buy_now_url"])
	}
	if got["title"] != "Dune" {
		t.Fatalf("unrelated field changed: %v", got["title"])
	}
	// When both spellings carry a value, the alternate's value is kept
	// under the canonical key.
	got = normalizeBookFields(map[string]any{
		"buy_now_url": "https://canonical.example",
		"buyNowUrl":   "https://alternate.example",
	})
	if got["buy_now_url"] != "https://alternate.example" {
		t.Fatalf("alternate value must win under the canonical key: %v", got["buy_now_url"])
	}
	if len(got) != 1 {
		t.Fatalf("expected only canonical key, got %v", got)
	}
}

func TestAdminAddBookSendsCanonicalFieldsOnly(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode admin payload: %v", err)
		}
		_ = json.NewEncoder(w).Encode(domain.Book{ID: 3, Title: "Dune"})
	}))
	defer srv.Close()

	client := newTestClient(seededStore(t, "token"), srv)
	_, err := client.AdminAddBook(context.Background(), map[string]any{
		"title":     "Dune",
		"buyNowUrl": "https://shop.example/dune",
	})
	if err != nil {
		t.Fatalf("admin add book: %v", err)
	}
	if _, ok := received["buyNowUrl"]; ok {
		t.Fatalf("backend received alternate spelling: %v", received)
	}
	if received["buy_now_url"] != "https://shop.example/dune" {
		t.Fatalf("backend missing canonical field: %v", received)
	}
}

func TestImportBooksCSVSendsMultipart(t *testing.T) {
	const csv = "title,author\nDune,Frank Herbert\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearer(r) != "Bearer token" {
			t.Errorf("missing bearer header on import")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "books.csv" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != csv {
			t.Errorf("file content mismatch: %q", content)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "imported 1 book"})
	}))
	defer srv.Close()

	client := newTestClient(seededStore(t, "token"), srv)
	message, err := client.ImportBooksCSV(context.Background(), "books.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if message != "imported 1 book" {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestToggleSaveReturnsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/42/toggle-save/" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Book added to saved list"})
	}))
	defer srv.Close()

	client := newTestClient(seededStore(t, "token"), srv)
	message, err := client.ToggleSaveBook(context.Background(), 42)
	if err != nil {
		t.Fatalf("toggle save: %v", err)
	}
	if message != "Book added to saved list" {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>nginx</html>"))
	}))
	defer srv.Close()

	client := newTestClient(session.NewMemoryStore(), srv)
	_, err := client.Genres(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Bad Gateway" {
		t.Fatalf("expected status-text fallback, got %v", err)
	}
}
