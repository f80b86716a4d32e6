package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dfryer1193/gitpix/imagestore/domain"
	"github.com/rs/zerolog/log"
)

// Service defines the image store operations the HTTP layer consumes.
type Service interface {
	Put(ctx context.Context, payload domain.UploadPayload) (domain.Image, error)
	Get(ctx context.Context, id string) (io.ReadCloser, error)
	Resolve(ctx context.Context, id string) (*domain.Image, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.Image, error)
}

// imageExt is fixed regardless of the uploaded content type, matching the
// storage layout this service inherited.
const imageExt = ".png"

// maxTokenAttempts bounds how often Put re-rolls a colliding identifier.
const maxTokenAttempts = 3

var _ Service = (*Store)(nil)

// Store implements Service on top of a ContentGateway. It holds no state of
// its own; every operation round-trips to the remote repository.
type Store struct {
	gateway  domain.ContentGateway
	folder   string
	newToken func() string
}

// NewStore creates a Store writing into the given folder of the gateway's
// repository.
func NewStore(gateway domain.ContentGateway, folder string) *Store {
	return &Store{
		gateway:  gateway,
		folder:   folder,
		newToken: NewToken,
	}
}

func (s *Store) imagePath(id string) string {
	return path.Join(s.folder, id+imageExt)
}

// Put stores the payload under a fresh identifier and returns the resulting
// record. Each candidate identifier is probed before the write and re-rolled
// on collision, up to maxTokenAttempts; a failed probe does not block the
// write, since a racing duplicate surfaces as a create conflict anyway. The
// write itself is never retried.
func (s *Store) Put(ctx context.Context, payload domain.UploadPayload) (domain.Image, error) {
	if len(payload.Bytes) == 0 {
		return domain.Image{}, fmt.Errorf("empty payload: %w", domain.ErrBadRequest)
	}

	id := s.newToken()
	for attempt := 1; ; attempt++ {
		taken, err := s.Exists(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("id", id).Msg("Identifier probe failed, writing anyway")
			break
		}
		if !taken {
			break
		}
		if attempt == maxTokenAttempts {
			return domain.Image{}, fmt.Errorf("no free identifier after %d attempts: %w", maxTokenAttempts, domain.ErrUploadFailed)
		}
		id = s.newToken()
	}

	filePath := s.imagePath(id)
	url, err := s.gateway.WriteFile(ctx, filePath, payload.Bytes, fmt.Sprintf("Uploaded %s%s", id, imageExt))
	if err != nil {
		return domain.Image{}, err
	}

	return domain.Image{ID: id, Path: filePath, URL: url}, nil
}

// Get returns a reader over the stored bytes for id. The caller must close
// it. A malformed identifier is reported as not-found without a round trip.
func (s *Store) Get(ctx context.Context, id string) (io.ReadCloser, error) {
	if !ValidToken(id) {
		return nil, fmt.Errorf("malformed identifier %q: %w", id, domain.ErrNotFound)
	}
	return s.gateway.OpenFile(ctx, s.imagePath(id))
}

// Resolve verifies that id names a stored image and returns its record,
// carrying the gateway-reported download URL.
func (s *Store) Resolve(ctx context.Context, id string) (*domain.Image, error) {
	if !ValidToken(id) {
		return nil, fmt.Errorf("malformed identifier %q: %w", id, domain.ErrNotFound)
	}

	filePath := s.imagePath(id)
	entry, err := s.gateway.StatFile(ctx, filePath)
	if err != nil {
		return nil, err
	}

	return &domain.Image{ID: id, Path: filePath, URL: entry.DownloadURL}, nil
}

// Exists reports whether id names a stored image. Absence folds to false;
// any other gateway failure is surfaced so the caller can distinguish
// "truly absent" from "could not check".
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Resolve(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List enumerates all stored images in the order the gateway reports them,
// which is repository directory order, not insertion order.
func (s *Store) List(ctx context.Context) ([]domain.Image, error) {
	entries, err := s.gateway.ListFolder(ctx, s.folder)
	if err != nil {
		return nil, err
	}

	images := make([]domain.Image, 0, len(entries))
	for _, e := range entries {
		id := strings.TrimSuffix(e.Name, path.Ext(e.Name))
		if id == "" {
			continue
		}
		images = append(images, domain.Image{
			ID:   id,
			Path: path.Join(s.folder, e.Name),
			URL:  e.DownloadURL,
		})
	}
	return images, nil
}
