package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/platform/httpx"
)

// Client forwards validated requests to the backend and hands the
// response back untouched.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Result is the backend's verbatim reply.
type Result struct {
	Status int
	Body   []byte
}

// Forward sends method+path (path may carry a query string) with an
// optional JSON body. userID <= 0 omits the identity header.
func (c *Client) Forward(ctx context.Context, method, path string, body any, userID int64, requestID string) (*Result, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set(httpx.HeaderUserID, strconv.FormatInt(userID, 10))
	}
	if requestID != "" {
		req.Header.Set(httpx.HeaderRequestID, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}
	return &Result{Status: resp.StatusCode, Body: payload}, nil
}
