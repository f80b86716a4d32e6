package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dfryer1193/gitpix/imagestore/domain"
	"github.com/google/go-github/v75/github"
	"github.com/rs/zerolog/log"
)

// GithubContentGateway is an implementation of domain.ContentGateway that
// stores files through the GitHub contents API. Every write creates a commit
// in the backing repository; that audit trail is intentional.
type GithubContentGateway struct {
	client     *github.Client
	httpClient *http.Client
	owner      string
	gitRepo    string
}

// NewGithubContentGateway creates a new GithubContentGateway. The http.Client
// is used for raw downloads; pass nil to use http.DefaultClient.
func NewGithubContentGateway(client *github.Client, httpClient *http.Client, owner string, gitRepo string) domain.ContentGateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GithubContentGateway{
		client:     client,
		httpClient: httpClient,
		owner:      owner,
		gitRepo:    gitRepo,
	}
}

// WriteFile creates a file in the repository and returns its download URL.
// The contents API rejects a create for a path that already exists; that
// conflict surfaces as an upload failure like every other write error.
func (g *GithubContentGateway) WriteFile(ctx context.Context, path string, content []byte, message string) (string, error) {
	op := fmt.Sprintf("creating file %s", path)
	resp, _, err := g.client.Repositories.CreateFile(ctx, g.owner, g.gitRepo, path, &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: content,
	})
	if err != nil {
		return "", translateGithubError(op, err, domain.ErrUploadFailed)
	}

	if resp == nil || resp.Content == nil || resp.Content.GetDownloadURL() == "" {
		return "", fmt.Errorf("github: %s returned no download URL: %w", op, domain.ErrUploadFailed)
	}

	return resp.Content.GetDownloadURL(), nil
}

// OpenFile returns a reader over the raw bytes at path. The file's metadata
// is fetched first so that absence is reported as not-found rather than as a
// failed download.
func (g *GithubContentGateway) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	entry, err := g.StatFile(ctx, path)
	if err != nil {
		return nil, err
	}

	op := fmt.Sprintf("downloading %s", path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("github: %s: %w", op, domain.ErrTransientFetch)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("Raw download failed")
		return nil, fmt.Errorf("github: %s failed: %w", op, domain.ErrTransientFetch)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("github: %s: %w", op, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("github: %s failed with status %d: %w", op, resp.StatusCode, domain.ErrTransientFetch)
	}

	return resp.Body, nil
}

// StatFile fetches the metadata for path without downloading its content.
func (g *GithubContentGateway) StatFile(ctx context.Context, path string) (*domain.FileEntry, error) {
	op := fmt.Sprintf("checking file %s", path)
	fileContent, _, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.gitRepo, path, nil)
	if err != nil {
		return nil, translateGithubError(op, err, domain.ErrTransientFetch)
	}

	if fileContent == nil {
		// The path resolved to a directory.
		return nil, fmt.Errorf("github: %s is not a file: %w", op, domain.ErrNotFound)
	}

	return &domain.FileEntry{
		Name:        fileContent.GetName(),
		DownloadURL: fileContent.GetDownloadURL(),
	}, nil
}

// ListFolder enumerates the files directly under folder. A folder that does
// not exist yet yields an empty slice; entries other than plain files are
// skipped.
func (g *GithubContentGateway) ListFolder(ctx context.Context, folder string) ([]domain.FileEntry, error) {
	op := fmt.Sprintf("listing folder %s", folder)
	_, dirContents, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.gitRepo, folder, nil)
	if err != nil {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response.StatusCode == http.StatusNotFound {
			return []domain.FileEntry{}, nil
		}
		return nil, translateGithubError(op, err, domain.ErrTransientFetch)
	}

	entries := make([]domain.FileEntry, 0, len(dirContents))
	for _, c := range dirContents {
		if c.GetType() != "file" {
			continue
		}
		entries = append(entries, domain.FileEntry{
			Name:        c.GetName(),
			DownloadURL: c.GetDownloadURL(),
		})
	}
	return entries, nil
}

// translateGithubError inspects an error from the go-github client and wraps
// it in a domain error kind. The provider's response body is logged, never
// returned, so it cannot leak to a client. Reads report 404 as not-found and
// everything else with the passed fallback kind; writes pass ErrUploadFailed
// so every write failure looks the same to the caller.
func translateGithubError(op string, err error, fallback error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		status := errResp.Response.StatusCode
		log.Error().Int("status", status).Str("op", op).Str("provider_message", errResp.Message).Msg("GitHub API error")

		if status == http.StatusNotFound && !errors.Is(fallback, domain.ErrUploadFailed) {
			return fmt.Errorf("github: %s: %w", op, domain.ErrNotFound)
		}
		return fmt.Errorf("github: %s failed with status %d: %w", op, status, fallback)
	}

	log.Error().Err(err).Str("op", op).Msg("GitHub request failed")
	return fmt.Errorf("github: %s failed: %w", op, fallback)
}
