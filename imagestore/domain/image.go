package domain

import (
	"context"
	"io"
)

// Image identifies a single stored image. It is derived entirely from the
// remote repository's state; there is no local record of it.
type Image struct {
	ID   string
	Path string
	URL  string
}

// SourceKind tags where an upload's bytes came from.
type SourceKind int

const (
	SourceLocalFile SourceKind = iota
	SourceRemoteURL
)

// UploadPayload is the normalized form of an incoming upload. It lives only
// for the duration of a single Put call.
type UploadPayload struct {
	Bytes  []byte
	Source SourceKind
}

// FileEntry is one file in the storage folder as reported by the gateway.
type FileEntry struct {
	Name        string
	DownloadURL string
}

// ContentGateway defines the interface for reading and writing files in the
// remote repository. This allows the store to be decoupled from a specific
// hosting provider.
type ContentGateway interface {
	// WriteFile creates path with the given content and commit message and
	// returns the URL at which the raw bytes are publicly fetchable.
	WriteFile(ctx context.Context, path string, content []byte, message string) (string, error)

	// OpenFile returns a reader over the raw bytes stored at path. The caller
	// must close it.
	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)

	// StatFile verifies that path exists and returns its listing entry.
	StatFile(ctx context.Context, path string) (*FileEntry, error)

	// ListFolder enumerates the files directly under folder. A missing or
	// empty folder yields an empty slice, not an error.
	ListFolder(ctx context.Context, folder string) ([]FileEntry, error)
}
