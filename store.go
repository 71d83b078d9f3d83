package glean

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// StoredFile mirrors the remote file resource owned by the storage
// collaborator: a name for state lookups, a URI for generation requests,
// and the current processing state.
type StoredFile struct {
	Name     string
	URI      string
	MIMEType string
	State    ProcessingState
}

// FileStore is the storage collaborator behind the Poller. Upload submits
// raw content for ingestion; Get re-fetches current state by name.
type FileStore interface {
	Upload(ctx context.Context, path, mimeType, displayName string) (*StoredFile, error)
	Get(ctx context.Context, name string) (*StoredFile, error)
}

// genaiFileStore adapts the genai Files API to FileStore.
type genaiFileStore struct {
	client *genai.Client
}

// NewFileStore wraps a genai client's Files API as a FileStore.
func NewFileStore(client *genai.Client) FileStore {
	return &genaiFileStore{client: client}
}

func (s *genaiFileStore) Upload(ctx context.Context, path, mimeType, displayName string) (*StoredFile, error) {
	if s.client == nil {
		return nil, fmt.Errorf("upload: client not initialized")
	}
	file, err := s.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	return storedFromGenai(file), nil
}

func (s *genaiFileStore) Get(ctx context.Context, name string) (*StoredFile, error) {
	if s.client == nil {
		return nil, fmt.Errorf("get: client not initialized")
	}
	file, err := s.client.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	return storedFromGenai(file), nil
}

func storedFromGenai(f *genai.File) *StoredFile {
	return &StoredFile{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
		State:    stateFromGenai(f.State),
	}
}

func stateFromGenai(s genai.FileState) ProcessingState {
	switch s {
	case genai.FileStateActive:
		return StateReady
	case genai.FileStateFailed:
		return StateFailed
	default:
		return StatePending
	}
}
