package argus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"argusglue/pkg/logging"
)

const (
	apiPrefix = "api/v2"

	// incidentEventEnd is the event type that resolves an incident.
	incidentEventEnd = "END"

	defaultTimeout = 30 * time.Second
)

// Client talks to the Argus incident API over HTTP with token
// authentication. It satisfies the monitor.Store contract.
//
// Per-call atomicity is the API's guarantee; the client adds none of its own
// state and is safe for concurrent use by multiple monitor loops.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given API host.
//
// host must be a URL with a scheme (https://argus.example.org). A zero
// timeout falls back to the default of 30 seconds.
func NewClient(host, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("argus host must be a URL with scheme, got %q", host)
	}
	if token == "" {
		return nil, fmt.Errorf("argus token must not be empty")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(host, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// listResponse is the paginated envelope the API wraps list results in.
type listResponse struct {
	Count   int            `json:"count"`
	Results []wireIncident `json:"results"`
}

// ListOpen returns the caller's currently open incidents.
//
// A monitor respecting the one-open-incident invariant sees 0 or 1 results;
// interpreting more than that is the reconciler's job, not the client's.
func (c *Client) ListOpen(ctx context.Context) ([]Incident, error) {
	body, err := c.do(ctx, http.MethodGet, "incidents/mine/?open=true", nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding incident list: %w", err)
	}

	incidents := make([]Incident, 0, len(resp.Results))
	for _, w := range resp.Results {
		inc, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	logging.Debug("ArgusClient", "Listed %d open incident(s)", len(incidents))
	return incidents, nil
}

// Open creates a new incident and returns it with its store-assigned
// identity filled in.
func (c *Client) Open(ctx context.Context, inc Incident) (Incident, error) {
	payload, err := json.Marshal(toWire(inc))
	if err != nil {
		return Incident{}, fmt.Errorf("encoding incident: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "incidents/", payload)
	if err != nil {
		return Incident{}, err
	}

	var w wireIncident
	if err := json.Unmarshal(body, &w); err != nil {
		return Incident{}, fmt.Errorf("decoding created incident: %w", err)
	}
	created, err := fromWire(w)
	if err != nil {
		return Incident{}, err
	}
	logging.Debug("ArgusClient", "Opened incident %d: %s", created.ID, created.Description)
	return created, nil
}

// incidentEvent is the payload that closes an incident.
type incidentEvent struct {
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

// Resolve closes an open incident by posting an end event with the given
// end time and message.
func (c *Client) Resolve(ctx context.Context, inc Incident, endTime time.Time, message string) error {
	event := incidentEvent{
		Type:        incidentEventEnd,
		Timestamp:   endTime.Format(time.RFC3339),
		Description: message,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding end event: %w", err)
	}

	path := fmt.Sprintf("incidents/%d/events/", inc.ID)
	if _, err := c.do(ctx, http.MethodPost, path, payload); err != nil {
		return err
	}
	logging.Debug("ArgusClient", "Resolved incident %d: %s", inc.ID, message)
	return nil
}

// Ping performs a single list round trip to verify host and token. Used by
// check-only mode.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListOpen(ctx)
	return err
}

// do executes one API request and classifies failures into the error
// taxonomy: transport failures become ConnectivityError, non-2xx responses
// become ProtocolError with the detail field pulled out of the body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/%s/%s", c.baseURL, apiPrefix, path)

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building %s request for %s: %w", method, reqURL, err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context cancellation is shutdown, not a store fault.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ConnectivityError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProtocolError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			URL:        reqURL,
			Detail:     extractDetail(body),
		}
	}

	return body, nil
}

// extractDetail pulls the "detail" field out of an API error body.
// Status codes without content yield an empty detail.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Detail
}
