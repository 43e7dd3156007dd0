package odre

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"energydash/internal/energy/dataset"
)

// maxErrorBody bounds how much of a failed response is kept for the error message.
const maxErrorBody = 512

type RESTClient struct {
	httpClient *http.Client
}

func NewRESTClient(timeout time.Duration) *RESTClient {
	return &RESTClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchDataset downloads the CSV export at url and decodes it into a Dataset.
// Transport and status failures are returned as *RetrievalError, decoding failures as *ParseError.
func (c *RESTClient) FetchDataset(ctx context.Context, url string) (*dataset.Dataset, error) {
	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RetrievalError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetrievalError{URL: url, Err: fmt.Errorf("making request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RetrievalError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("odre error: %s", body),
		}
	}

	// A body cut short (reset, truncated Content-Length, deadline) is a retrieval failure,
	// so the whole export is read before decoding.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetrievalError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	records, err := DecodeCSV(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	return dataset.New(url, time.Now(), records), nil
}
