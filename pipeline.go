package glean

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/genai"
)

// Request is one (content handle, instruction, schema) triple. Immutable
// once constructed; a nil Schema selects unstructured mode.
type Request struct {
	Handle      *ContentHandle
	Instruction string
	Schema      *Schema
}

// Result is the outcome of one extraction request: the parsed records in
// response order plus the raw payload kept for diagnostics. In unstructured
// mode Records is empty and Text carries the free-form answer.
type Result struct {
	Raw     json.RawMessage
	Text    string
	records any
	count   int
}

// Len returns the number of parsed records.
func (r *Result) Len() int { return r.count }

// Records returns the typed record slice of a result produced with a schema
// declared over T. A mismatched T yields nil, which is a programmer error
// at the call site.
func Records[T any](r *Result) []T {
	if r == nil {
		return nil
	}
	s, _ := r.records.([]T)
	return s
}

// Pipeline orchestrates schema-constrained extraction requests against
// ready content handles.
type Pipeline struct {
	invoker Invoker
	model   string
	log     *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger lets the caller supply their own logger.
func WithPipelineLogger(log *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.log = log }
}

// WithInvoker substitutes the generation collaborator, typically a scripted
// fake in tests.
func WithInvoker(inv Invoker) PipelineOption {
	return func(p *Pipeline) { p.invoker = inv }
}

// NewPipeline builds a pipeline over a genai client using the configured
// model identifier.
func NewPipeline(client *genai.Client, cfg Config, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		model: cfg.Model,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.invoker == nil {
		p.invoker = &genaiInvoker{client: client, log: p.log}
	}
	return p
}

// Extract issues one generation request for the handle, constrained to the
// schema, and parses the response strictly. With a nil schema the request is
// unstructured: the result carries free text and no records.
func (p *Pipeline) Extract(ctx context.Context, h *ContentHandle, instruction string, sch *Schema) (*Result, error) {
	if err := p.checkRequest(h); err != nil {
		return nil, err
	}
	parts, err := contentParts(h, instruction)
	if err != nil {
		return nil, err
	}

	var constraint *genai.Schema
	if sch != nil {
		constraint = sch.constraint
		p.log.Debug("extracting", "handle", h.ID, "purpose", sch.purpose, "model", p.model)
	} else {
		p.log.Debug("extracting unstructured", "handle", h.ID, "model", p.model)
	}

	raw, err := p.invoker.Generate(ctx, p.model, parts, constraint)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	if sch == nil {
		return &Result{Raw: raw, Text: string(raw)}, nil
	}

	cleaned := SanitizeJSON(raw)
	records, n, err := sch.decode(cleaned)
	if err != nil {
		return nil, err
	}
	p.log.Debug("extraction parsed", "purpose", sch.purpose, "records", n)
	return &Result{Raw: cleaned, records: records, count: n}, nil
}

// CountTokens reports the token count the collaborator assigns to the
// handle plus instruction, without generating anything.
func (p *Pipeline) CountTokens(ctx context.Context, h *ContentHandle, instruction string) (int32, error) {
	if err := p.checkRequest(h); err != nil {
		return 0, err
	}
	parts, err := contentParts(h, instruction)
	if err != nil {
		return 0, err
	}
	return p.invoker.CountTokens(ctx, p.model, parts)
}

func (p *Pipeline) checkRequest(h *ContentHandle) error {
	if h == nil {
		return fmt.Errorf("extract: %w", ErrEmptyReference)
	}
	if p.model == "" {
		return fmt.Errorf("extract: %w", ErrModelMissing)
	}
	if h.State != StateReady {
		return fmt.Errorf("extract: content %s is not ready (state %s)", h.ID, h.State)
	}
	return nil
}

// contentParts lays out the request: the content part first, then the
// instruction, matching the order the collaborator expects for media.
func contentParts(h *ContentHandle, instruction string) ([]*genai.Part, error) {
	var parts []*genai.Part
	switch h.Kind {
	case KindText:
		parts = append(parts, genai.NewPartFromText(h.Text))
	case KindImage:
		parts = append(parts, genai.NewPartFromBytes(h.Data, h.MIMEType))
	case KindDocument, KindAudio, KindVideo:
		if h.URI == "" {
			return nil, fmt.Errorf("content %s has no uploaded file reference", h.ID)
		}
		parts = append(parts, genai.NewPartFromFile(genai.File{URI: h.URI, MIMEType: h.MIMEType}))
	case KindRemoteURL:
		parts = append(parts, genai.NewPartFromURI(h.URI, h.MIMEType))
	default:
		return nil, fmt.Errorf("content %s has unsupported kind %s", h.ID, h.Kind)
	}
	if instruction != "" {
		parts = append(parts, genai.NewPartFromText(instruction))
	}
	return parts, nil
}

// ExtractNested fans out one dependent extraction per parent record, in
// parent order, against the same handle. The returned map is keyed by
// keyOf(parent). Execution is sequential and stops at the first failure:
// results already completed for earlier siblings are returned alongside the
// error, and nothing is retried.
func ExtractNested[P any](
	ctx context.Context,
	p *Pipeline,
	h *ContentHandle,
	parents []P,
	keyOf func(P) string,
	instruct func(P) string,
	sch *Schema,
) (map[string]*Result, error) {
	out := make(map[string]*Result, len(parents))
	for _, parent := range parents {
		key := keyOf(parent)
		res, err := p.Extract(ctx, h, instruct(parent), sch)
		if err != nil {
			return out, fmt.Errorf("nested %q: %w", key, err)
		}
		out[key] = res
	}
	return out, nil
}

// ExtractNestedParallel is ExtractNested on a concurrent Runner. Each
// nested call is read-only over the shared handle and independent of its
// siblings, so parallel execution is safe; the map contract and the
// first-failure error are preserved, though siblings already in flight run
// to completion.
func ExtractNestedParallel[P any](
	ctx context.Context,
	p *Pipeline,
	h *ContentHandle,
	parents []P,
	keyOf func(P) string,
	instruct func(P) string,
	sch *Schema,
	r Runner,
) (map[string]*Result, error) {
	if r == nil {
		r = DefaultRunner(ctx)
	}
	var mu sync.Mutex
	out := make(map[string]*Result, len(parents))
	for _, parent := range parents {
		parent := parent
		r.Go(func() error {
			key := keyOf(parent)
			res, err := p.Extract(ctx, h, instruct(parent), sch)
			if err != nil {
				return fmt.Errorf("nested %q: %w", key, err)
			}
			mu.Lock()
			out[key] = res
			mu.Unlock()
			return nil
		})
	}
	err := r.Wait()
	return out, err
}
