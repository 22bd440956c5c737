// Package api implements the authenticated request pipeline against the
// Book Oracle REST service: session-aware request execution with a single
// transparent refresh-and-retry on 401, and the typed operation catalog
// built on top of it.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookoracle/pkg/domain"
	"bookoracle/pkg/session"
)

// Config wires required dependencies for the API client.
type Config struct {
	BaseURL    string
	Sessions   session.Store
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client is the typed operation catalog. All operations return normalized
// failures (*Error); login and register are the only places a new session
// is created.
type Client struct {
	gw       *gateway
	sessions session.Store
}

// New constructs a client against the given service base URL.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		gw: &gateway{
			baseURL:    baseURL,
			httpClient: httpClient,
			sessions:   cfg.Sessions,
			logger:     logger,
			refresher: &refresher{
				baseURL:    baseURL,
				httpClient: httpClient,
				sessions:   cfg.Sessions,
			},
		},
		sessions: cfg.Sessions,
	}
}

type authResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    domain.User `json:"user"`
}

// Login authenticates and persists the new session: both credentials plus
// the profile embedded in the response.
func (c *Client) Login(ctx context.Context, email, password string) (domain.User, error) {
	body, err := c.postJSON(ctx, "auth/login/", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return domain.User{}, err
	}
	auth, err := decode[authResponse](body)
	if err != nil {
		return domain.User{}, err
	}
	if err := c.sessions.Save(ctx, session.Session{
		AccessToken:  auth.Access,
		RefreshToken: auth.Refresh,
		User:         auth.User,
	}); err != nil {
		return domain.User{}, err
	}
	return auth.User, nil
}

// RegisterParams are the fields accepted by auth/register/.
type RegisterParams struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Register creates an account and persists the returned session.
func (c *Client) Register(ctx context.Context, params RegisterParams) (domain.User, error) {
	body, err := c.postJSON(ctx, "auth/register/", params)
	if err != nil {
		return domain.User{}, err
	}
	auth, err := decode[authResponse](body)
	if err != nil {
		return domain.User{}, err
	}
	if err := c.sessions.Save(ctx, session.Session{
		AccessToken:  auth.Access,
		RefreshToken: auth.Refresh,
		User:         auth.User,
	}); err != nil {
		return domain.User{}, err
	}
	return auth.User, nil
}

// Logout destroys the local session. The backend keeps no server-side
// session to invalidate.
func (c *Client) Logout(ctx context.Context) error {
	return c.sessions.Clear(ctx)
}

// CurrentUser fetches the authoritative profile. It does not touch the
// cached profile; callers that want the cache updated do so explicitly.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	body, err := c.get(ctx, "users/me/", nil)
	if err != nil {
		return domain.User{}, err
	}
	return decode[domain.User](body)
}

// UpdateGenrePreferences replaces the user's favorite genres by name.
func (c *Client) UpdateGenrePreferences(ctx context.Context, genres []string) error {
	req, err := jsonRequest(http.MethodPut, "users/preferences/", map[string][]string{"genres": genres})
	if err != nil {
		return err
	}
	_, err = c.gw.do(ctx, req)
	return err
}

// Genres lists all catalog genres.
func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	body, err := c.get(ctx, "genres/", nil)
	if err != nil {
		return nil, err
	}
	return decode[[]domain.Genre](body)
}

// SearchBooks runs a free-text title/author search.
func (c *Client) SearchBooks(ctx context.Context, query string) ([]domain.Book, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	body, err := c.get(ctx, "books/search/", q)
	if err != nil {
		return nil, err
	}
	return decode[[]domain.Book](body)
}

// GetBook fetches a single book by id.
func (c *Client) GetBook(ctx context.Context, id int64) (domain.Book, error) {
	body, err := c.get(ctx, "books/"+strconv.FormatInt(id, 10)+"/", nil)
	if err != nil {
		return domain.Book{}, err
	}
	return decode[domain.Book](body)
}

// RecommendedBooks returns the personalized recommendation list.
func (c *Client) RecommendedBooks(ctx context.Context) ([]domain.Book, error) {
	body, err := c.get(ctx, "books/recommended/", nil)
	if err != nil {
		return nil, err
	}
	return decode[[]domain.Book](body)
}

// SavedBooks lists the full book records for the user's saved set.
func (c *Client) SavedBooks(ctx context.Context) ([]domain.Book, error) {
	body, err := c.get(ctx, "users/saved-books/", nil)
	if err != nil {
		return nil, err
	}
	return decode[[]domain.Book](body)
}

// ToggleSaveBook flips server-side membership of the book in the saved
// set and returns the server's confirmation message. The cached profile is
// deliberately not updated here; see saved.Mutator.
func (c *Client) ToggleSaveBook(ctx context.Context, id int64) (string, error) {
	body, err := c.postJSON(ctx, "books/"+strconv.FormatInt(id, 10)+"/toggle-save/", nil)
	if err != nil {
		return "", err
	}
	result, err := decode[struct {
		Message string `json:"message"`
	}](body)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

// ExploreFilters narrows the explore listing. Zero values are omitted.
type ExploreFilters struct {
	Author        string
	ISBN          string
	Genre         string
	PublishedYear string
	Publisher     string
	Language      string
}

func (f ExploreFilters) values() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("author", f.Author)
	set("isbn", f.ISBN)
	set("genre", f.Genre)
	set("published_year", f.PublishedYear)
	set("publisher", f.Publisher)
	set("language", f.Language)
	return q
}

// ExploreParams select one page of the explore listing.
type ExploreParams struct {
	Offset  int
	Limit   int
	Filters ExploreFilters
}

// ExploreBooks fetches one page of the paginated, filterable listing.
func (c *Client) ExploreBooks(ctx context.Context, params ExploreParams) (domain.ExplorePage, error) {
	q := params.Filters.values()
	q.Set("offset", strconv.Itoa(params.Offset))
	q.Set("limit", strconv.Itoa(params.Limit))
	body, err := c.get(ctx, "books/explore/", q)
	if err != nil {
		return domain.ExplorePage{}, err
	}
	return decode[domain.ExplorePage](body)
}

// FilterOptions returns the value lists backing the explore filters.
func (c *Client) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	body, err := c.get(ctx, "books/filter-options/", nil)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return decode[domain.FilterOptions](body)
}

// DashboardStats returns the admin dashboard aggregates.
func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	body, err := c.get(ctx, "dashboard/", nil)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return decode[domain.DashboardStats](body)
}

// ForgotPassword starts the OTP password-reset flow.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.postJSON(ctx, "auth/forgot-password/", map[string]string{"email": email})
	return err
}

// VerifyOTP checks the one-time code and returns the reset handle.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (int64, error) {
	body, err := c.postJSON(ctx, "auth/verify-otp/", map[string]string{"email": email, "otp": otp})
	if err != nil {
		return 0, err
	}
	result, err := decode[struct {
		OTPID int64 `json:"otp_id"`
	}](body)
	if err != nil {
		return 0, err
	}
	return result.OTPID, nil
}

// ResetPassword completes the reset flow with a verified OTP handle.
func (c *Client) ResetPassword(ctx context.Context, email string, otpID int64, newPassword string) error {
	_, err := c.postJSON(ctx, "auth/reset-password/", map[string]any{
		"email":        email,
		"otp_id":       otpID,
		"new_password": newPassword,
	})
	return err
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.gw.do(ctx, request{method: http.MethodGet, path: path, query: query})
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	req, err := jsonRequest(http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	return c.gw.do(ctx, req)
}
