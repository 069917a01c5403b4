package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/encodeous/topomon/state"
	"golang.org/x/time/rate"
)

// Http fetches a JSON array of links, either ["a","b",bw] triples or {"a","b","bandwidth"} objects.
type Http struct {
	Url     string
	Client  *http.Client
	limiter *rate.Limiter
}

func NewHttp(url string) *Http {
	return &Http{
		Url:     url,
		Client:  &http.Client{Timeout: state.HttpSourceTimeout},
		limiter: rate.NewLimiter(rate.Every(state.HttpSourceMinGap), 1),
	}
}

func (h *Http) Fetch(ctx context.Context) ([]state.Link, error) {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.Url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("link source %s returned %s: %s", h.Url, resp.Status, body)
	}

	links := make([]state.Link, 0)
	if err = json.NewDecoder(resp.Body).Decode(&links); err != nil {
		return nil, fmt.Errorf("failed to decode links from %s: %w", h.Url, err)
	}
	return links, nil
}

func (h *Http) Close() error {
	h.Client.CloseIdleConnections()
	return nil
}
