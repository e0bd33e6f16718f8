package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Nnenty/telers/telerrors"
)

// Client is the narrow remote API surface the dispatch engine depends on.
// The engine treats it as an opaque, fallible RPC and never inspects its
// transport.
type Client interface {
	// Send calls the named remote method with the given parameters and
	// returns the raw result payload.
	Send(ctx context.Context, token, method string, params any) ([]byte, telerrors.Error)
}

// DefaultAPIURL is the base URL of the hosted bot API.
const DefaultAPIURL = "https://api.telegram.org"

// apiResponse is the envelope every remote call answers with.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

// HTTPClient is the default Client over the bot API HTTP surface.
// It carries no retry or backoff policy; that belongs to the update source.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates an HTTPClient for the given base URL. An empty base
// URL falls back to DefaultAPIURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	return &HTTPClient{
		baseURL: baseURL,
		http: &http.Client{
			// Long polling holds the connection open for the poll timeout,
			// so the client timeout has to stay above it.
			Timeout: 2 * time.Minute,
		},
	}
}

func (c *HTTPClient) Send(
	ctx context.Context,
	token, method string,
	params any,
) ([]byte, telerrors.Error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindInternal,
			err,
			fmt.Sprintf("failed to marshal params for `%s`", method),
		)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindInternal,
			err,
			fmt.Sprintf("failed to build request for `%s`", method),
		)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindInternal,
			err,
			fmt.Sprintf("failed to call `%s`", method),
		)
	}

	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindInternal,
			err,
			fmt.Sprintf("failed to read response of `%s`", method),
		)
	}

	var envelope apiResponse
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, telerrors.FromError(
			telerrors.KindInternal,
			err,
			fmt.Sprintf("failed to decode response of `%s`", method),
		)
	}

	if !envelope.OK {
		return nil, telerrors.FromString(
			telerrors.KindInternal,
			fmt.Sprintf(
				"remote call `%s` failed with code %d: %s",
				method,
				envelope.ErrorCode,
				envelope.Description,
			),
		)
	}

	return envelope.Result, nil
}
