package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dfryer1193/gitpix/imagestore/domain"
)

// fakeGateway is an in-memory domain.ContentGateway.
type fakeGateway struct {
	files    map[string][]byte
	writeErr error
	statErr  error
	listErr  error
	writes   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{files: make(map[string][]byte)}
}

func (f *fakeGateway) downloadURL(path string) string {
	return "https://raw.example.test/" + path
}

func (f *fakeGateway) WriteFile(_ context.Context, path string, content []byte, _ string) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	if _, exists := f.files[path]; exists {
		return "", fmt.Errorf("create conflict on %s: %w", path, domain.ErrUploadFailed)
	}
	f.writes++
	f.files[path] = content
	return f.downloadURL(path), nil
}

func (f *fakeGateway) OpenFile(_ context.Context, path string) (io.ReadCloser, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (f *fakeGateway) StatFile(_ context.Context, path string) (*domain.FileEntry, error) {
	if f.statErr != nil {
		return nil, f.statErr
	}
	if _, ok := f.files[path]; !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	name := path[strings.LastIndex(path, "/")+1:]
	return &domain.FileEntry{Name: name, DownloadURL: f.downloadURL(path)}, nil
}

func (f *fakeGateway) ListFolder(_ context.Context, folder string) ([]domain.FileEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	entries := []domain.FileEntry{}
	for path := range f.files {
		if strings.HasPrefix(path, folder+"/") {
			name := path[len(folder)+1:]
			entries = append(entries, domain.FileEntry{Name: name, DownloadURL: f.downloadURL(path)})
		}
	}
	return entries, nil
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	gw := newFakeGateway()
	store := NewStore(gw, "images")
	ctx := context.Background()

	want := []byte{0x89, 'P', 'N', 'G', 1, 2, 3, 4, 5, 6}
	img, err := store.Put(ctx, domain.UploadPayload{Bytes: want, Source: domain.SourceLocalFile})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if !ValidToken(img.ID) {
		t.Errorf("Put returned identifier %q, want 4 base36 chars", img.ID)
	}
	if img.Path != "images/"+img.ID+".png" {
		t.Errorf("Path = %q, want %q", img.Path, "images/"+img.ID+".png")
	}
	if img.URL == "" {
		t.Error("Put returned empty URL")
	}

	rc, err := store.Get(ctx, img.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("Failed to read image: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get returned %v, want %v", got, want)
	}
}

func TestStore_PutEmptyPayload(t *testing.T) {
	store := NewStore(newFakeGateway(), "images")

	_, err := store.Put(context.Background(), domain.UploadPayload{})
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("Put(empty) error = %v, want ErrBadRequest", err)
	}
}

func TestStore_PutRerollsOnCollision(t *testing.T) {
	gw := newFakeGateway()
	gw.files["images/aaaa.png"] = []byte("existing")

	store := NewStore(gw, "images")
	tokens := []string{"aaaa", "bbbb"}
	store.newToken = func() string {
		tok := tokens[0]
		if len(tokens) > 1 {
			tokens = tokens[1:]
		}
		return tok
	}

	img, err := store.Put(context.Background(), domain.UploadPayload{Bytes: []byte("new")})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if img.ID != "bbbb" {
		t.Errorf("ID = %q, want re-rolled %q", img.ID, "bbbb")
	}
}

func TestStore_PutGivesUpWhenTokensExhausted(t *testing.T) {
	gw := newFakeGateway()
	gw.files["images/aaaa.png"] = []byte("existing")

	store := NewStore(gw, "images")
	store.newToken = func() string { return "aaaa" }

	_, err := store.Put(context.Background(), domain.UploadPayload{Bytes: []byte("new")})
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Errorf("Put error = %v, want ErrUploadFailed", err)
	}
	if gw.writes != 0 {
		t.Errorf("gateway saw %d writes, want 0", gw.writes)
	}
}

func TestStore_PutWritesWhenProbeFails(t *testing.T) {
	gw := newFakeGateway()
	gw.statErr = fmt.Errorf("gateway down: %w", domain.ErrTransientFetch)

	store := NewStore(gw, "images")
	img, err := store.Put(context.Background(), domain.UploadPayload{Bytes: []byte("content")})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if gw.writes != 1 {
		t.Errorf("gateway saw %d writes, want 1", gw.writes)
	}
	if !ValidToken(img.ID) {
		t.Errorf("ID = %q, want a valid token", img.ID)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := NewStore(newFakeGateway(), "images")
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
	}{
		{name: "Never written", id: "zzzz"},
		{name: "Malformed identifier", id: "nonexistent-id"},
		{name: "Traversal attempt", id: "../a"},
		{name: "Empty identifier", id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Get(ctx, tt.id)
			if !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("Get(%q) error = %v, want ErrNotFound", tt.id, err)
			}
		})
	}
}

func TestStore_ExistsAgreesWithGet(t *testing.T) {
	gw := newFakeGateway()
	store := NewStore(gw, "images")
	ctx := context.Background()

	stored, err := store.Put(ctx, domain.UploadPayload{Bytes: []byte("content")})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	for _, id := range []string{stored.ID, "zzzz", "bad id"} {
		exists, err := store.Exists(ctx, id)
		if err != nil {
			t.Fatalf("Exists(%q) failed: %v", id, err)
		}

		rc, getErr := store.Get(ctx, id)
		if getErr == nil {
			rc.Close()
		}

		if exists != (getErr == nil) {
			t.Errorf("Exists(%q) = %v but Get error = %v", id, exists, getErr)
		}
	}
}

func TestStore_List(t *testing.T) {
	gw := newFakeGateway()
	store := NewStore(gw, "images")
	ctx := context.Background()

	images, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("List on empty folder returned %d entries, want 0", len(images))
	}

	putIDs := make(map[string]bool)
	for i := 0; i < 3; i++ {
		img, err := store.Put(ctx, domain.UploadPayload{Bytes: []byte{byte(i + 1)}})
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		putIDs[img.ID] = true
	}

	images, err = store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(images) != len(putIDs) {
		t.Fatalf("List returned %d entries, want %d", len(images), len(putIDs))
	}

	for _, img := range images {
		if !putIDs[img.ID] {
			t.Errorf("List returned unexpected identifier %q", img.ID)
		}
		if img.URL == "" {
			t.Errorf("List entry %q has empty URL", img.ID)
		}
	}
}

func TestStore_ListGatewayFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.listErr = fmt.Errorf("boom: %w", domain.ErrTransientFetch)

	store := NewStore(gw, "images")
	if _, err := store.List(context.Background()); !errors.Is(err, domain.ErrTransientFetch) {
		t.Errorf("List error = %v, want ErrTransientFetch", err)
	}
}
