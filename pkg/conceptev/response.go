package conceptev

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Response is a successful API response.
//
// Value holds the decoded JSON body when the body is well-formed JSON and is
// nil otherwise; Body always holds the raw bytes.
type Response struct {
	StatusCode int
	Body       []byte
	Value      any

	structured bool
}

// Structured reports whether the body was decoded as JSON.
func (r *Response) Structured() bool {
	return r.structured
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if !r.structured {
		return fmt.Errorf("response body is not JSON: %q", truncate(r.Body, 64))
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Resource returns the body as a single resource.
func (r *Response) Resource() (Resource, error) {
	var res Resource
	if err := r.Decode(&res); err != nil {
		return nil, err
	}
	return res, nil
}

// Resources returns the body as a list of resources.
func (r *Response) Resources() ([]Resource, error) {
	var res []Resource
	if err := r.Decode(&res); err != nil {
		return nil, err
	}
	return res, nil
}

// processResponse classifies resp: 200 and 201 are successes, anything else
// is a RemoteRequestError carrying the body. The body is always consumed and
// closed.
func processResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		reqErr := &RemoteRequestError{
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		if resp.Request != nil {
			reqErr.Method = resp.Request.Method
			reqErr.Path = resp.Request.URL.Path
		}
		return nil, reqErr
	}

	return decodeBody(resp.StatusCode, body), nil
}

func decodeBody(status int, body []byte) *Response {
	out := &Response{StatusCode: status, Body: body}
	var v any
	if len(body) > 0 && json.Unmarshal(body, &v) == nil {
		out.Value = v
		out.structured = true
	}
	return out
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
