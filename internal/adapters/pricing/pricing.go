package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Source identifiers carried on every PriceResult
const (
	SourceCoinGecko = "coingecko"
	SourceGoldAPI   = "goldapi"
	SourceFinnhub   = "finnhub"
	SourceSystem    = "system"
)

// DefaultTimeout bounds every upstream price call
const DefaultTimeout = 10 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getJSON performs a GET request and decodes the JSON body into out.
// Non-2xx statuses are returned as errors carrying the upstream status code.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, source string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s API returned %d", source, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed %s response: %w", source, err)
	}

	return nil
}
