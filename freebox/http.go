package freebox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/muurk/freebox/access"
)

// rawResponse is an unauthenticated exchange, used before any session exists
type rawResponse struct {
	StatusCode int
	body       []byte
	isJSON     bool
}

// fetch performs one unauthenticated request
func fetch(ctx context.Context, client *http.Client, method, target string, body any, userAgent string) (*rawResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, access.NewRequestError("failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, access.NewRequestError("failed to create request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, access.ClassifyNetworkError(fmt.Sprintf("%s %s failed", method, req.URL.Path), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, access.ClassifyNetworkError("failed to read response body", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return &rawResponse{
		StatusCode: resp.StatusCode,
		body:       data,
		isJSON:     mediaType == "application/json",
	}, nil
}

// fetchEnvelope performs one unauthenticated request and decodes the envelope
func (f *Freebox) fetchEnvelope(ctx context.Context, method, target string, body any) (*access.Envelope, error) {
	resp, err := fetch(ctx, f.http, method, target, body, f.userAgent)
	if err != nil {
		return nil, err
	}
	if !resp.isJSON {
		return nil, access.NewAPIError(fmt.Sprintf("unexpected non-JSON response (status %d)", resp.StatusCode), "", resp.StatusCode, nil)
	}

	env, err := access.DecodeEnvelope(resp.body)
	if err != nil {
		return nil, &access.Error{
			Type:       access.ErrTypeRequest,
			Message:    "failed to parse JSON response",
			StatusCode: resp.StatusCode,
			Envelope:   resp.body,
			Err:        err,
		}
	}
	return env, nil
}
