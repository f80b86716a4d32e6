package application

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dfryer1193/gitpix/imagestore/domain"
)

// Ingress normalizes the two accepted upload shapes, a local file stream or
// a remote URL, into a single UploadPayload. Both modes read the full image
// into memory before handing it to the store.
type Ingress struct {
	client *http.Client
}

// NewIngress creates an Ingress. Pass nil to fetch remote URLs with
// http.DefaultClient.
func NewIngress(client *http.Client) *Ingress {
	if client == nil {
		client = http.DefaultClient
	}
	return &Ingress{client: client}
}

// FromReader normalizes an uploaded file stream.
func (i *Ingress) FromReader(r io.Reader) (domain.UploadPayload, error) {
	if r == nil {
		return domain.UploadPayload{}, fmt.Errorf("no file uploaded: %w", domain.ErrBadRequest)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return domain.UploadPayload{}, fmt.Errorf("reading uploaded file: %w", domain.ErrBadRequest)
	}

	return domain.UploadPayload{Bytes: data, Source: domain.SourceLocalFile}, nil
}

// FromURL fetches a remote image. Transport failures and non-2xx responses
// are both transient fetch errors; the remote being gone is not the
// uploader's fault and not this service's.
func (i *Ingress) FromURL(ctx context.Context, rawURL string) (domain.UploadPayload, error) {
	if rawURL == "" {
		return domain.UploadPayload{}, fmt.Errorf("no imageUrl provided: %w", domain.ErrBadRequest)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.UploadPayload{}, fmt.Errorf("invalid imageUrl %q: %w", rawURL, domain.ErrBadRequest)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return domain.UploadPayload{}, fmt.Errorf("fetching %s: %w", rawURL, domain.ErrTransientFetch)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.UploadPayload{}, fmt.Errorf("fetching %s returned status %d: %w", rawURL, resp.StatusCode, domain.ErrTransientFetch)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.UploadPayload{}, fmt.Errorf("reading %s: %w", rawURL, domain.ErrTransientFetch)
	}

	return domain.UploadPayload{Bytes: data, Source: domain.SourceRemoteURL}, nil
}
