package purpleair

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultCloudBase = "https://www.purpleair.com"
	apiKeyHeader     = "X-API-Key"

	// The transport default would leave a hung fetch unbounded; the poll
	// interval assumes attempts are short-lived.
	fetchTimeout = 15 * time.Second

	// Responses are tiny JSON documents; cap reads in case of a
	// misbehaving endpoint.
	maxBodyBytes = 1 << 20
)

// Source identifies the sensor to fetch and how to reach it. A non-empty
// LocalIP always selects the local-network endpoint; the cloud fields are
// ignored in that case.
type Source struct {
	SensorID string
	ReadKey  string
	APIKey   string
	LocalIP  string
}

// Client performs a single GET against the selected endpoint. It never
// retries; retry cadence belongs to the poll scheduler.
type Client struct {
	httpClient *http.Client
	cloudBase  string
}

// NewClient builds a client with sane defaults. cloudBase overrides the
// public API base URL (used by tests); empty means the real service.
func NewClient(cloudBase string, httpClient *http.Client) *Client {
	if cloudBase == "" {
		cloudBase = defaultCloudBase
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	return &Client{httpClient: httpClient, cloudBase: cloudBase}
}

// URL returns the endpoint Fetch will hit for the given source, for logging.
func (c *Client) URL(src Source) string {
	if src.LocalIP != "" {
		return fmt.Sprintf("http://%s/json", src.LocalIP)
	}
	q := url.Values{"show": {src.SensorID}}
	if src.ReadKey != "" {
		q.Set("key", src.ReadKey)
	}
	return c.cloudBase + "/json?" + q.Encode()
}

// Fetch retrieves the raw payload for the source, tagged Cloud or Local.
func (c *Client) Fetch(ctx context.Context, src Source) (Payload, error) {
	if src.LocalIP != "" {
		return c.fetchLocal(ctx, src)
	}
	return c.fetchCloud(ctx, src)
}

func (c *Client) fetchCloud(ctx context.Context, src Source) (Payload, error) {
	u := c.URL(src)
	body, ferr := c.get(ctx, u, src.APIKey)
	if ferr != nil {
		return Payload{}, ferr
	}

	var envelope CloudPayload
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Payload{}, &ParseError{Field: "results", Err: err}
	}
	if len(envelope.Results) == 0 {
		return Payload{}, &FetchError{Kind: FetchMissingSensor, URL: u}
	}
	return Payload{Cloud: &envelope}, nil
}

func (c *Client) fetchLocal(ctx context.Context, src Source) (Payload, error) {
	u := c.URL(src)
	body, ferr := c.get(ctx, u, "")
	if ferr != nil {
		return Payload{}, ferr
	}

	var p LocalPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, &ParseError{Field: "body", Err: err}
	}
	return Payload{Local: &p}, nil
}

// get issues the GET and returns the response body, classifying transport
// and status failures.
func (c *Client) get(ctx context.Context, u, apiKey string) ([]byte, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, URL: u, Err: err}
	}
	if apiKey != "" {
		req.Header.Set(apiKeyHeader, apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, URL: u, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, URL: u, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Kind: FetchHTTPStatus, URL: u, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
