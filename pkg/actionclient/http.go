package actionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/heartmarshall/taskboard-backend/internal/action"
)

// TokenSource returns the bearer token for a request. An empty token sends
// the request anonymously.
type TokenSource func(ctx context.Context) (string, error)

// NewHTTPAction returns an Invoker that posts the JSON-encoded input to
// baseURL/api/actions/{name} and decodes the structured result.
func NewHTTPAction[TIn, TOut any](baseURL, name string, client *http.Client, tokens TokenSource) Invoker[TIn, TOut] {
	if client == nil {
		client = http.DefaultClient
	}
	endpoint := strings.TrimRight(baseURL, "/") + "/api/actions/" + url.PathEscape(name)

	return func(ctx context.Context, in TIn) (*action.Result[TOut], error) {
		body, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("actionclient: encode %s input: %w", name, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("actionclient: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		if tokens != nil {
			token, err := tokens(ctx)
			if err != nil {
				return nil, fmt.Errorf("actionclient: get token: %w", err)
			}
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("actionclient: %s: %w", name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("actionclient: %s: unexpected status %d", name, resp.StatusCode)
		}

		var res action.Result[TOut]
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return nil, fmt.Errorf("actionclient: decode %s result: %w", name, err)
		}
		return &res, nil
	}
}

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}
