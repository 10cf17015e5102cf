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
	"time"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/netx"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string       `json:"code"`
		Message string       `json:"message"`
		Details []FieldError `json:"details"`
	} `json:"error"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	return &HTTPClient{baseURL: u.String(), http: &http.Client{Timeout: timeout}}, nil
}

func (c *HTTPClient) endpoint(query url.Values, elem ...string) (string, error) {
	for i, e := range elem {
		elem[i] = url.PathEscape(e)
	}
	u, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

// do sends the request and decodes the envelope's data into out (when
// non-nil).
func (c *HTTPClient) do(ctx context.Context, method, target, secret, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if secret != "" {
		req.Header.Set(common.SecretHeaderName, secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code, apiErr.Message, apiErr.Details = env.Error.Code, env.Error.Message, env.Error.Details
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, target, secret string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}
	return c.do(ctx, method, target, secret, contentType, body, out)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	target, err := c.endpoint(nil, "health")
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}
	return nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	target, err := c.endpoint(nil, "api", "users")
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := c.doJSON(ctx, http.MethodGet, target, "", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, userID string) (models.User, error) {
	var u models.User
	target, err := c.endpoint(nil, "api", "users", userID)
	if err != nil {
		return u, err
	}
	err = c.doJSON(ctx, http.MethodGet, target, "", nil, &u)
	return u, err
}

// ListMemories fetches every memory of the user, unfiltered. Filtering and
// sorting happen locally.
func (c *HTTPClient) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	target, err := c.endpoint(nil, "api", "users", userID, "memories")
	if err != nil {
		return nil, err
	}
	list := make([]models.Memory, 0)
	if err := c.doJSON(ctx, http.MethodGet, target, "", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetMemory(ctx context.Context, memoryID string) (models.Memory, error) {
	var m models.Memory
	target, err := c.endpoint(nil, "api", "memories", memoryID)
	if err != nil {
		return m, err
	}
	err = c.doJSON(ctx, http.MethodGet, target, "", nil, &m)
	return m, err
}

func (c *HTTPClient) CreateMemory(ctx context.Context, userID, secret string, in NewMemory) (models.Memory, error) {
	var m models.Memory
	target, err := c.endpoint(nil, "api", "users", userID, "memories")
	if err != nil {
		return m, err
	}

	fields := map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"date":        in.Date,
		"location":    in.Location,
		"image_url":   in.ImageURL,
	}

	if in.Image == nil {
		err = c.doJSON(ctx, http.MethodPost, target, secret, fields, &m)
		return m, err
	}

	file := *in.Image
	file.Field = "image"
	body, contentType, err := netx.MultipartBody(fields, &file)
	if err != nil {
		return m, err
	}
	err = c.do(ctx, http.MethodPost, target, secret, contentType, body, &m)
	return m, err
}

func (c *HTTPClient) UpdateMemory(ctx context.Context, memoryID, secret string, p models.MemoryPatch) (models.Memory, error) {
	var m models.Memory
	target, err := c.endpoint(nil, "api", "memories", memoryID)
	if err != nil {
		return m, err
	}
	err = c.doJSON(ctx, http.MethodPatch, target, secret, p, &m)
	return m, err
}

func (c *HTTPClient) DeleteMemory(ctx context.Context, memoryID, secret string) error {
	target, err := c.endpoint(nil, "api", "memories", memoryID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, target, secret, "", nil, nil)
}

func (c *HTTPClient) UploadImage(ctx context.Context, secret string, f netx.File) (string, error) {
	target, err := c.endpoint(nil, "api", "uploads")
	if err != nil {
		return "", err
	}

	f.Field = "image"
	body, contentType, err := netx.MultipartBody(nil, &f)
	if err != nil {
		return "", err
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, target, secret, contentType, body, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New("upload response has no url")
	}
	return out.URL, nil
}
