package glean

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"
)

// StubCall records one Generate invocation on a StubInvoker.
type StubCall struct {
	Model string
	Parts []*genai.Part
}

// StubInvoker is a scripted Invoker for tests. Responses are consumed in
// order; once exhausted Generate returns an error.
type StubInvoker struct {
	mu        sync.Mutex
	Responses [][]byte
	Err       error
	Tokens    int32
	Calls     []StubCall
}

func (s *StubInvoker) Generate(ctx context.Context, model string, parts []*genai.Part, constraint *genai.Schema) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, StubCall{Model: model, Parts: parts})
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Responses) == 0 {
		return nil, errors.New("stub invoker: no responses left")
	}
	resp := s.Responses[0]
	s.Responses = s.Responses[1:]
	return resp, nil
}

func (s *StubInvoker) CountTokens(ctx context.Context, model string, parts []*genai.Part) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Tokens, nil
}

// StubFileStore is a scripted FileStore for tests. Get walks States one
// entry per call, sticking on the last entry once exhausted.
type StubFileStore struct {
	Uploaded  *StoredFile
	UploadErr error
	States    []ProcessingState
	GetErr    error
	GetCalls  int
}

func (s *StubFileStore) Upload(ctx context.Context, path, mimeType, displayName string) (*StoredFile, error) {
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}
	if s.Uploaded != nil {
		return s.Uploaded, nil
	}
	return &StoredFile{
		Name:     "files/stub",
		URI:      "https://files.example/stub",
		MIMEType: mimeType,
		State:    StatePending,
	}, nil
}

func (s *StubFileStore) Get(ctx context.Context, name string) (*StoredFile, error) {
	idx := s.GetCalls
	s.GetCalls++
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	state := StatePending
	if len(s.States) > 0 {
		if idx >= len(s.States) {
			idx = len(s.States) - 1
		}
		state = s.States[idx]
	}
	return &StoredFile{
		Name:     name,
		URI:      "https://files.example/stub",
		MIMEType: "video/mp4",
		State:    state,
	}, nil
}
