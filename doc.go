// Package glean implements a structured extraction pipeline for financial
// media: a content reference (raw text, image, PDF, audio, video, or a
// remote URL) is resolved into a content handle, pushed through server-side
// ingestion when the media kind requires it, and then queried with
// schema-constrained generation requests whose JSON responses parse into
// typed records (themes, companies, predictions).
//
// The flow is strictly forward: reference → handle → ready handle → typed
// records → presentation. Handles are never mutated after creation; the only
// state transition is the processing state advancing from pending to ready
// or failed while the Poller waits on ingestion.
//
// # Basic usage
//
//	cfg, err := glean.ConfigFromEnv()
//	client, err := glean.NewClient(ctx, cfg)
//	pipe := glean.NewPipeline(client, cfg)
//
//	handle, err := glean.NewSource().ResolveFile("files/citrini_24_trades.pdf")
//	poller := glean.NewPoller(glean.NewFileStore(client))
//	handle, err = poller.Submit(ctx, handle)
//	handle, err = poller.AwaitReady(ctx, handle)
//
//	themes, err := pipe.Extract(ctx, handle, prompt, glean.NewRegistry().MustLookup(glean.PurposeThemes))
//	for _, t := range glean.Records[glean.Theme](themes) {
//	    fmt.Println(t.Name)
//	}
//
// Responses are validated strictly: a record missing a required field, or
// carrying a field of the wrong shape, rejects the whole result with a
// *SchemaViolationError. Calls without a schema run in unstructured mode and
// return free text instead.
package glean
