package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/avasilenko/snapdiary/internal/client/models"
	"github.com/avasilenko/snapdiary/internal/common"
)

// refreshLeeway is how close to expiry the access token may get before the
// client refreshes it ahead of a request.
const refreshLeeway = 30 * time.Second

// HTTPClient talks JSON over HTTP to the diary backend. It manages the
// access/refresh token pair: the access token is attached to every
// authenticated request, refreshed proactively when its exp claim is near,
// and refreshed reactively (with a single retry) when the server answers 401.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewHTTPClient returns a client for the backend at baseURL,
// e.g. "http://127.0.0.1:8080".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) setTokens(p tokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = p.AccessToken
	c.refreshToken = p.RefreshToken
}

func (c *HTTPClient) tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func mapStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

// do executes one JSON request. When authed is true the current access
// token is attached; a 401 triggers a single refresh-and-retry.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any, authed bool) error {
	if authed {
		access, refresh := c.tokens()
		if refresh != "" && tokenExpiresWithin(access, refreshLeeway) {
			// best effort; the reactive 401 path still covers us
			_ = c.refresh(ctx)
		}
	}

	err := c.doOnce(ctx, method, path, body, out, authed)
	if err == nil || !authed {
		return err
	}

	if _, refresh := c.tokens(); errors.Is(err, ErrUnauthorized) && refresh != "" {
		if rerr := c.refresh(ctx); rerr != nil {
			return err
		}
		return c.doOnce(ctx, method, path, body, out, authed)
	}
	return err
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, body any, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		access, _ := c.tokens()
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh == "" {
		return ErrUnauthorized
	}
	var pair tokenPair
	err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh",
		map[string]string{"refreshToken": refresh}, &pair, false)
	if err != nil {
		return err
	}
	c.setTokens(pair)
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) error {
	return c.doOnce(ctx, http.MethodPost, "/api/auth/register",
		credentials{Email: email, Password: password}, nil, false)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	var pair tokenPair
	err := c.doOnce(ctx, http.MethodPost, "/api/auth/login",
		credentials{Email: email, Password: password}, &pair, false)
	if err != nil {
		return err
	}
	c.setTokens(pair)
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.doOnce(ctx, http.MethodGet, "/api/health", nil, nil, false)
}

func (c *HTTPClient) FetchEntries(ctx context.Context) ([]models.DiaryEntry, error) {
	var entries []models.DiaryEntry
	if err := c.do(ctx, http.MethodGet, "/api/entries", nil, &entries, true); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) CreateEntry(ctx context.Context, entry *models.DiaryEntry) (*models.DiaryEntry, error) {
	var created models.DiaryEntry
	if err := c.do(ctx, http.MethodPost, "/api/entries", entry, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) UpdateEntry(ctx context.Context, id string, patch models.EntryPatch) (*models.DiaryEntry, error) {
	var updated models.DiaryEntry
	path := "/api/entries/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, patch, &updated, true); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id string) error {
	path := "/api/entries/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// groupEntryInsert is the flattened row shape of the group-scoped write.
type groupEntryInsert struct {
	UserID   string           `json:"userId"`
	GroupID  string           `json:"groupId"`
	PhotoURL string           `json:"photo_url"`
	Caption  string           `json:"caption"`
	Mood     models.Mood      `json:"mood"`
	Location *models.Location `json:"location,omitempty"`
	Date     time.Time        `json:"date"`
	Likes    []string         `json:"likes"`
	Comments []models.Comment `json:"comments"`
}

func (c *HTTPClient) CreateGroupEntry(ctx context.Context, groupID string, entry *models.DiaryEntry) error {
	row := groupEntryInsert{
		UserID:   entry.UserID,
		GroupID:  groupID,
		PhotoURL: entry.Photo,
		Caption:  entry.Caption,
		Mood:     entry.Mood,
		Location: entry.Location,
		Date:     entry.Date,
		Likes:    entry.Likes,
		Comments: entry.Comments,
	}
	path := "/api/groups/" + url.PathEscape(groupID) + "/entries"
	return c.do(ctx, http.MethodPost, path, row, nil, true)
}
