package media

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starford/mannaz/internal/apperr"
)

// Remote implements Store against an external image upload service. Assets
// are keyed by the opaque identifier the service returns; the ref is the
// fully-qualified URL the service hosts the image at.
type Remote struct {
	endpoint string
	apiKey   string
	maxWidth int
	client   *http.Client
}

// NewRemote creates a Remote store. maxWidth, when positive, is passed
// through to the service so it can constrain the stored image's width.
func NewRemote(endpoint, apiKey string, maxWidth int) *Remote {
	return &Remote{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		maxWidth: maxWidth,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Store uploads data as a multipart POST and returns the hosted URL plus
// the service's asset key.
func (r *Remote) Store(data []byte, name string) (string, string, error) {
	ref, key, err := r.upload(data, name)
	if err != nil {
		return "", "", errors.Join(apperr.ErrStorage, err)
	}
	return ref, key, nil
}

func (r *Remote) upload(data []byte, name string) (string, string, error) {
	cleaned, err := SanitizeName(name)
	if err != nil {
		return "", "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", cleaned)
	if err != nil {
		return "", "", fmt.Errorf("media: build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", "", fmt.Errorf("media: build upload: %w", err)
	}
	if r.maxWidth > 0 {
		_ = mw.WriteField("max_width", strconv.Itoa(r.maxWidth))
	}
	if err := mw.Close(); err != nil {
		return "", "", fmt.Errorf("media: build upload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, r.endpoint, &body)
	if err != nil {
		return "", "", fmt.Errorf("media: build upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("media: upload %s: %w", cleaned, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("media: upload %s: unexpected status %d", cleaned, resp.StatusCode)
	}

	var ur uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&ur); err != nil {
		return "", "", fmt.Errorf("media: decode upload response: %w", err)
	}
	if ur.URL == "" || ur.Key == "" {
		return "", "", fmt.Errorf("media: upload response missing url or key")
	}
	return ur.URL, ur.Key, nil
}

// Replace removes the old asset best-effort, then uploads the new one.
func (r *Remote) Replace(oldRef, oldKey string, data []byte, name string) (string, string, error) {
	return replace(r, oldRef, oldKey, data, name)
}

// Delete asks the service to remove the asset behind key. An empty ref is a
// no-op, and a 404 from the service counts as already deleted.
func (r *Remote) Delete(ref, key string) error {
	if ref == "" || key == "" {
		return nil
	}

	req, err := http.NewRequest(http.MethodDelete, r.endpoint+"/"+url.PathEscape(key), nil)
	if err != nil {
		return fmt.Errorf("media: build delete: %w", err)
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("media: delete %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("media: delete %s: unexpected status %d", key, resp.StatusCode)
	}
	return nil
}

// Verify Remote satisfies Store at compile time.
var _ Store = (*Remote)(nil)
