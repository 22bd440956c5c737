package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"

	"bookoracle/pkg/session"
)

// refresher exchanges the stored refresh credential for a new access
// credential. Concurrent callers share a single in-flight exchange so that
// simultaneous 401s from independent requests cannot stampede the backend
// or overwrite each other's result.
type refresher struct {
	baseURL    string
	httpClient *http.Client
	sessions   session.Store
	group      singleflight.Group
}

// refresh returns a fresh access token, writing it back to the session
// store without touching the refresh credential. Failures never clear the
// session here; that policy belongs to the caller.
func (r *refresher) refresh(ctx context.Context) (string, error) {
	access, err, _ := r.group.Do("refresh", func() (any, error) {
		return r.exchange(ctx)
	})
	if err != nil {
		return "", err
	}
	return access.(string), nil
}

func (r *refresher) exchange(ctx context.Context) (string, error) {
	sess, err := r.sessions.Current(ctx)
	if err != nil || sess.RefreshToken == "" {
		return "", &Error{Kind: KindNoRefreshToken, Message: "no refresh token available"}
	}

	payload, _ := json.Marshal(map[string]string{"refresh": sess.RefreshToken})
	target := strings.TrimRight(r.baseURL, "/") + "/auth/token/refresh/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return "", networkError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", networkError(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", networkError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, body)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.Access == "" {
		return "", malformedError()
	}
	// Backends may rotate only the access credential; the refresh token
	// stays as stored.
	if err := r.sessions.SetAccessToken(ctx, result.Access); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}
	return result.Access, nil
}
