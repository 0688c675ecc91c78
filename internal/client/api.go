// Package client is the consumer side of the bookmark API: a typed HTTP
// client and a shared bookmark cache that keeps every observer consistent.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ablemap/ablemap/internal/utils"
	"github.com/ablemap/ablemap/internal/version"
)

var (
	// ErrUnauthorized means the server rejected the credential (401).
	ErrUnauthorized = errors.New("credential rejected")
	// ErrNotFound means the user or resource does not exist (404).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyBookmarked is the non-fatal 409 of an add.
	ErrAlreadyBookmarked = errors.New("already bookmarked")
	// ErrNotAuthenticated means no credential is available locally; no
	// request was sent.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// StatusError is any other non-2xx answer.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded %d", e.Code)
	}
	return fmt.Sprintf("server responded %d: %s", e.Code, e.Message)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

type Bookmark struct {
	ID        int64     `json:"id"`
	PlaceID   string    `json:"placeId"`
	PlaceName string    `json:"placeName"`
	UserIDs   []int64   `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type User struct {
	ID             int64     `json:"id"`
	Nickname       string    `json:"nickname"`
	AuthProvider   string    `json:"authProvider"`
	AuthProviderID string    `json:"authProviderId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Facility struct {
	Available bool     `json:"available"`
	Features  []string `json:"features"`
}

type AccessibilityReport struct {
	PlaceID              string   `json:"place_id"`
	PlaceName            string   `json:"place_name"`
	Summary              string   `json:"summary"`
	Score                int      `json:"accessibility_score"`
	Recommendations      []string `json:"recommendations"`
	HighlightedObstacles []string `json:"highlighted_obstacles"`
	AIAnalysis           struct {
		HasStairs          bool `json:"has_stairs"`
		StairsCount        int  `json:"stairs_count"`
		HasRamp            bool `json:"has_ramp"`
		EntranceAccessible bool `json:"entrance_accessible"`
	} `json:"ai_analysis"`
	FacilityDetails struct {
		Entrance Facility `json:"entrance"`
		Restroom Facility `json:"restroom"`
		Parking  Facility `json:"parking"`
		Elevator Facility `json:"elevator"`
	} `json:"facility_details"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Feedback struct {
	SatisfactionLevel string   `json:"satisfactionLevel"`
	FeedbackDetails   []string `json:"feedbackDetails,omitempty"`
	DeviceID          string   `json:"deviceId,omitempty"`
}

// APIClient talks to the AbleMap HTTP API. Timeouts come from the caller's
// context; the http.Client is only a transport.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient targets baseURL (ex: http://localhost:8080). A nil httpClient
// uses http.DefaultClient.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *APIClient) ListBookmarks(ctx context.Context, credential string) ([]Bookmark, error) {
	var out []Bookmark
	if err := c.do(ctx, http.MethodGet, "/api/bookmarks/user", credential, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) AddBookmark(ctx context.Context, credential, placeID, placeName string) (*Bookmark, error) {
	body := map[string]string{"poiId": placeID, "placeName": placeName}
	var out Bookmark
	if err := c.do(ctx, http.MethodPost, "/api/bookmarks", credential, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) RemoveBookmark(ctx context.Context, credential, placeID string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookmarks/"+url.PathEscape(placeID), credential, nil, nil)
}

// BookmarkStatus works with an empty credential (always false then).
func (c *APIClient) BookmarkStatus(ctx context.Context, credential, placeID string) (bool, error) {
	var out struct {
		IsBookmarked bool `json:"isBookmarked"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/bookmarks/"+url.PathEscape(placeID)+"/status", credential, nil, &out); err != nil {
		return false, err
	}
	return out.IsBookmarked, nil
}

func (c *APIClient) Me(ctx context.Context, credential string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", credential, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Provision links the credential to a user, returning whether it was created.
func (c *APIClient) Provision(ctx context.Context, credential string) (*User, bool, error) {
	var out struct {
		User      User `json:"user"`
		IsNewUser bool `json:"isNewUser"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/me", credential, nil, &out); err != nil {
		return nil, false, err
	}
	return &out.User, out.IsNewUser, nil
}

func (c *APIClient) Accessibility(ctx context.Context, placeID string) (*AccessibilityReport, error) {
	var out AccessibilityReport
	if err := c.do(ctx, http.MethodGet, "/api/places/"+url.PathEscape(placeID)+"/accessibility", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendFeedback returns the stored feedback id. credential may be empty.
func (c *APIClient) SendFeedback(ctx context.Context, credential string, fb Feedback) (int64, error) {
	var out struct {
		FeedbackID int64 `json:"feedbackId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/feedback", credential, fb, &out); err != nil {
		return 0, err
	}
	return out.FeedbackID, nil
}

func (c *APIClient) do(ctx context.Context, method, path, credential string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(out); err != nil {
			return fmt.Errorf("%s %s: invalid response: %w", method, path, err)
		}
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s %s: %w", method, path, ErrAlreadyBookmarked)
	}

	var msg struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&msg)
	return &StatusError{Code: resp.StatusCode, Message: msg.Message}
}
