package conceptev

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/spf13/afero"
)

// ComponentFileTypeParam is the query parameter naming the kind of an
// uploaded component file, e.g. "motor_lab_file".
const ComponentFileTypeParam = "component_file_type"

// Read performs a GET on route, or on route/id when id is not empty.
func (s *Session) Read(ctx context.Context, route Route, id string, params url.Values) (*Response, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.send(ctx, http.MethodGet, route.Path(id), params, nil, "")
	if err != nil {
		return nil, err
	}
	return processResponse(resp)
}

// Create performs a POST of payload, encoded as JSON, on route.
func (s *Session) Create(ctx context.Context, route Route, payload any, params url.Values) (*Response, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}

	body, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}

	resp, err := s.send(ctx, http.MethodPost, route.Path(""), params, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	return processResponse(resp)
}

// Update performs a PUT of payload, encoded as JSON, on route/id.
func (s *Session) Update(ctx context.Context, route Route, id string, payload any) (*Response, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}

	body, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}

	resp, err := s.send(ctx, http.MethodPut, route.Path(id), nil, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	return processResponse(resp)
}

// Delete performs a DELETE on route/id. Only 204 No Content is a success.
func (s *Session) Delete(ctx context.Context, route Route, id string) error {
	if err := route.Validate(); err != nil {
		return err
	}

	resp, err := s.send(ctx, http.MethodDelete, route.Path(id), nil, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return &DeleteFailedError{Route: route, ID: id, StatusCode: resp.StatusCode}
	}
	return nil
}

// Patch reads route/id, applies an RFC 7386 JSON merge patch to it and
// writes the result back with Update.
func (s *Session) Patch(ctx context.Context, route Route, id string, mergePatch []byte) (*Response, error) {
	current, err := s.Read(ctx, route, id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", route.Path(id), err)
	}

	patched, err := jsonpatch.MergePatch(current.Body, mergePatch)
	if err != nil {
		return nil, fmt.Errorf("failed to apply merge patch: %w", err)
	}

	return s.Update(ctx, route, id, json.RawMessage(patched))
}

// UploadComponentFile uploads the text file filename as a component file of
// the given kind. Errors opening or reading the file are returned as-is.
func (s *Session) UploadComponentFile(ctx context.Context, filename, fileKind string) (*Response, error) {
	params := url.Values{}
	params.Set(ComponentFileTypeParam, fileKind)
	return s.postFile(ctx, RouteComponentsUpload, filename, params)
}

// CreateFromFile creates a resource on route from a file, posting it to
// the route's from_file verb (e.g. /drive_cycles:from_file).
func (s *Session) CreateFromFile(ctx context.Context, route Route, filename string, params url.Values) (*Response, error) {
	fromFile, err := route.WithVerb("from_file")
	if err != nil {
		return nil, err
	}
	return s.postFile(ctx, fromFile, filename, params)
}

func (s *Session) postFile(ctx context.Context, route Route, filename string, params url.Values) (*Response, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}

	contents, err := afero.ReadFile(s.fs, filename)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := part.Write(contents); err != nil {
		return nil, fmt.Errorf("failed to write multipart field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	resp, err := s.send(ctx, http.MethodPost, route.Path(""), params, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return processResponse(resp)
}

func marshalPayload(payload any) ([]byte, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return b, nil
}
