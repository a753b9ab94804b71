// Package httpsampler fetches a sampling strategy for a service from
// a remote sampling manager over HTTP, the way jaeger's agent exposes
// its sampling-strategy endpoint.
package httpsampler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/theplant/jaegertrace/jaegertrace"
	"github.com/theplant/jaegertrace/kerrs"
)

// Client fetches a jaegertrace.SamplingStrategyResponse for a service
// name from a remote manager's HTTP endpoint.
type Client struct {
	serverURL string
	client    *http.Client
}

func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		client:    http.DefaultClient,
	}
}

// GetSamplingStrategy issues GET <serverURL>?service=<service> and
// decodes the JSON response body. Transient HTTP errors, non-200
// status, and decode errors are all normalized into a single wrapped
// error so the caller's logging/metrics path is uniform.
func (c *Client) GetSamplingStrategy(service string) (*jaegertrace.SamplingStrategyResponse, error) {
	u := fmt.Sprintf("%s?service=%s", c.serverURL, url.QueryEscape(service))

	resp, err := c.client.Get(u)
	if err != nil {
		return nil, kerrs.Wrapv(err, "fetching sampling strategy", "url", u, "service", service)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, kerrs.Wrapv(
			fmt.Errorf("unexpected status code %d", resp.StatusCode),
			"fetching sampling strategy", "url", u, "service", service,
		)
	}

	var strategy jaegertrace.SamplingStrategyResponse
	if err := json.NewDecoder(resp.Body).Decode(&strategy); err != nil {
		return nil, kerrs.Wrapv(err, "decoding sampling strategy response", "url", u, "service", service)
	}

	return &strategy, nil
}
