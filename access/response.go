package access

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
)

const jsonContentType = "application/json"

// Response is the outcome of a successful call. For JSON responses Payload
// holds the decoded result (or data) field; any other content type is
// passed through untouched in Raw.
type Response struct {
	StatusCode  int
	ContentType string
	Header      http.Header

	// Payload is the result field, or the data field for partial results
	Payload json.RawMessage
	// Partial is set when the device flagged failure but still returned data
	Partial bool

	// Raw is the complete response body
	Raw []byte
}

// IsJSON reports whether the response was a JSON envelope
func (r *Response) IsJSON() bool {
	return isJSON(r.ContentType)
}

// Decode unmarshals the payload into v. An empty or null payload leaves v unchanged.
func (r *Response) Decode(v any) error {
	if r == nil {
		return nil
	}
	if !r.IsJSON() {
		return NewRequestError(fmt.Sprintf("cannot decode %s response as JSON", r.ContentType), nil)
	}
	if len(r.Payload) == 0 || string(r.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return NewRequestError("failed to decode response payload", err)
	}
	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == jsonContentType
}
