package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultURL is the public endpoint of the hosted service.
const DefaultURL = "https://gateway.watsonplatform.net/conversation/api"

// DefaultVersionDate pins the API behaviour the dialog was trained against.
const DefaultVersionDate = "2016-10-21"

// ClientConfig describes how to reach the message API.
type ClientConfig struct {
	URL         string
	Username    string
	Password    string
	VersionDate string

	// Timeout bounds each call. Zero leaves the transport default.
	Timeout time.Duration
}

// Client calls the message API over HTTP.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a Client, filling in the default URL and version date.
func NewClient(config ClientConfig) (*Client, error) {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.VersionDate == "" {
		config.VersionDate = DefaultVersionDate
	}
	if _, err := url.Parse(config.URL); err != nil {
		return nil, fmt.Errorf("parse conversation URL: %w", err)
	}
	config.URL = strings.TrimRight(config.URL, "/")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// MessageURL returns the endpoint for a workspace.
func (c *Client) MessageURL(workspaceID string) string {
	return fmt.Sprintf("%s/v1/workspaces/%s/message?version=%s",
		c.config.URL, url.PathEscape(workspaceID), url.QueryEscape(c.config.VersionDate))
}

// Message sends one user turn and returns the dialog reply. Failures reported
// by or on the way to the service are returned as *APIError.
func (c *Client) Message(ctx context.Context, payload Payload) (*MessageResponse, error) {
	if payload.WorkspaceID == "" {
		return nil, errors.New("workspace id is required")
	}

	reqBody, err := json.Marshal(messageBody{Input: payload.Input, Context: payload.Context})
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.MessageURL(payload.WorkspaceID), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.config.Username != "" || c.config.Password != "" {
		httpReq.SetBasicAuth(c.config.Username, c.config.Password)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{Body: map[string]any{"error": err.Error()}}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &APIError{Code: httpResp.StatusCode, Body: map[string]any{"error": err.Error()}}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, newAPIError(httpResp.StatusCode, body)
	}

	var resp MessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}

// newAPIError keeps the upstream error document when it is JSON.
func newAPIError(status int, body []byte) *APIError {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		doc = map[string]any{"error": strings.TrimSpace(string(body))}
	}
	if _, ok := doc["code"]; !ok {
		doc["code"] = status
	}
	return &APIError{Code: status, Body: doc}
}
