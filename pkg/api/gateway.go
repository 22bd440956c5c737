package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookoracle/internal/util"
	"bookoracle/pkg/session"
)

const defaultTimeout = 15 * time.Second

// request describes one outbound call. The body is kept as bytes so the
// retried attempt after a token refresh can resend it unchanged.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return request{}, fmt.Errorf("encode request body: %w", err)
		}
		req.body = body
		req.contentType = "application/json"
	}
	return req, nil
}

// gateway executes every outbound call: it attaches the stored access
// credential, converts transport failures into normalized errors, and runs
// the single refresh-and-retry cycle on 401.
type gateway struct {
	baseURL    string
	httpClient *http.Client
	sessions   session.Store
	refresher  *refresher
	logger     *slog.Logger
}

// do performs the call and returns the raw 2xx body. Every failure comes
// back as *Error; nothing escapes as a panic or an unwrapped transport
// fault.
func (g *gateway) do(ctx context.Context, req request) ([]byte, error) {
	access := ""
	hadSession := false
	if sess, err := g.sessions.Current(ctx); err == nil {
		access = sess.AccessToken
		hadSession = true
	}

	status, body, err := g.dispatch(ctx, req, access)
	if err != nil {
		return nil, err
	}
	if status != http.StatusUnauthorized || !hadSession {
		return normalize(status, body)
	}

	// Retried: one refresh, one more dispatch, then stop regardless of
	// outcome. A refresh failure surfaces the original 401, not the
	// refresh error.
	newAccess, refreshErr := g.refresher.refresh(ctx)
	if refreshErr != nil {
		g.logger.Debug("token refresh failed", "err", refreshErr)
		return normalize(status, body)
	}
	g.logger.Debug("access token refreshed, retrying request", "path", req.path)
	status, body, err = g.dispatch(ctx, req, newAccess)
	if err != nil {
		return nil, err
	}
	return normalize(status, body)
}

// dispatch sends one HTTP request. Transport-level failures are returned
// as KindNetworkFailure.
func (g *gateway) dispatch(ctx context.Context, req request, access string) (int, []byte, error) {
	target := strings.TrimRight(g.baseURL, "/") + "/" + strings.TrimLeft(req.path, "/")
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	var reader io.Reader
	if req.body != nil {
		reader = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, reader)
	if err != nil {
		return 0, nil, networkError(err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}
	httpReq.Header.Set("X-Request-Id", util.NewID())

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		// Covers context cancellation and http.Client timeouts alike; the
		// wrapped error keeps the cause readable.
		return 0, nil, networkError(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return 0, nil, networkError(err)
	}
	return resp.StatusCode, body, nil
}

func normalize(status int, body []byte) ([]byte, error) {
	if status < 200 || status > 299 {
		return nil, statusError(status, body)
	}
	return body, nil
}
