package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"bookoracle/pkg/domain"
)

// Alternate client-side spellings of catalog URL fields, collapsed to the
// server's canonical snake_case names before transmission.
var canonicalBookFields = map[string]string{
	"buyNowUrl":   "buy_now_url",
	"previewUrl":  "preview_url",
	"downloadUrl": "download_url",
}

// normalizeBookFields rewrites alternate field spellings to their canonical
// names and strips the alternates, so the backend never sees duplicate keys
// for the same logical field. When both spellings are present the alternate's
// value is the one transmitted.
func normalizeBookFields(fields map[string]any) map[string]any {
	payload := make(map[string]any, len(fields))
	for key, value := range fields {
		payload[key] = value
	}
	for alternate, canonical := range canonicalBookFields {
		value, ok := payload[alternate]
		if !ok {
			continue
		}
		payload[canonical] = value
		delete(payload, alternate)
	}
	return payload
}

// AdminUsers lists all registered users.
func (c *Client) AdminUsers(ctx context.Context) ([]domain.User, error) {
	body, err := c.get(ctx, "admin/users/", nil)
	if err != nil {
		return nil, err
	}
	return decode[[]domain.User](body)
}

// AdminDeleteUser removes a user account.
func (c *Client) AdminDeleteUser(ctx context.Context, id int64) error {
	_, err := c.gw.do(ctx, request{
		method: http.MethodDelete,
		path:   "admin/users/" + strconv.FormatInt(id, 10) + "/delete/",
	})
	return err
}

// AdminBooks lists catalog books for management, optionally filtered by a
// free-text query, with the same offset/limit paging as explore.
func (c *Client) AdminBooks(ctx context.Context, query string, offset, limit int) (domain.ExplorePage, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	if query != "" {
		q.Set("q", query)
	}
	body, err := c.get(ctx, "admin/books/", q)
	if err != nil {
		return domain.ExplorePage{}, err
	}
	return decode[domain.ExplorePage](body)
}

// AdminAddBook submits a new catalog entry. Field spellings are normalized
// before transmission.
func (c *Client) AdminAddBook(ctx context.Context, fields map[string]any) (domain.Book, error) {
	body, err := c.postJSON(ctx, "books/add/", normalizeBookFields(fields))
	if err != nil {
		return domain.Book{}, err
	}
	return decode[domain.Book](body)
}

// AdminEditBook updates an existing catalog entry.
func (c *Client) AdminEditBook(ctx context.Context, id int64, fields map[string]any) error {
	req, err := jsonRequest(http.MethodPut,
		"books/"+strconv.FormatInt(id, 10)+"/edit/", normalizeBookFields(fields))
	if err != nil {
		return err
	}
	_, err = c.gw.do(ctx, req)
	return err
}

// AdminDeleteBook removes a catalog entry.
func (c *Client) AdminDeleteBook(ctx context.Context, id int64) error {
	_, err := c.gw.do(ctx, request{
		method: http.MethodDelete,
		path:   "books/" + strconv.FormatInt(id, 10) + "/delete/",
	})
	return err
}

// AdminAddGenres registers new genre names.
func (c *Client) AdminAddGenres(ctx context.Context, names []string) error {
	_, err := c.postJSON(ctx, "admin/genres/add/", map[string][]string{"names": names})
	return err
}

// ImportBooksCSV uploads a CSV catalog file as multipart form data and
// returns the server's summary message.
func (c *Client) ImportBooksCSV(ctx context.Context, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read csv file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish multipart body: %w", err)
	}

	body, err := c.gw.do(ctx, request{
		method:      http.MethodPost,
		path:        "admin/books/import-csv/",
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
	})
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
