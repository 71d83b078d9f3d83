package glean

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/tyler-sommer/stick"
)

// builtinTemplates are the instruction templates behind the built-in
// purposes. Overridable per instance; template variables use Twig syntax.
var builtinTemplates = map[string]string{
	PurposeThemes: "Attached is a list of thematic trade ideas for {{ year }}. " +
		"Analyze the following text and extract all of the theme names discussed.",
	PurposeCompanies: "Attached is a list of thematic trade ideas for {{ year }}. " +
		"I am only interested in the companies mentioned in the theme: {{ theme }}. " +
		"Extract all of the companies mentioned in the theme, including the company name, " +
		"whether they are publicly traded or not, the ticker symbol associated with each " +
		"company (if it is publicly traded), and whether the company was recommended to go " +
		"long or short, True if long, False if short.",
	PurposePredictions: "I have attached the audio of a podcast. Give me a list of " +
		"predictions made by the interviewee and the timeframe of the prediction.",
	PurposeVideoIdeas: "I have attached a video. Listen to the video and give me a list " +
		"of stocks mentioned in the video, whether the speaker was bullish or bearish on " +
		"the stock, and why.",
	PurposeGuru: `Analyze this video.

Extract who is making predictions in the video. Summarize their background.

Extract stock picks and predictions. Focus on:

Price targets for specific assets (e.g., company stock, indexes, crypto) with predicted value and timeframe.
Macro predictions (e.g., interest rates, recessions) with event and timeline.
Bullish/bearish sentiment on companies, sectors, or asset classes.
General market calls (e.g., index movements, bull/bear runs).
Event-driven forecasts (e.g., earnings, policy changes).
Risky or contrarian bets (e.g., high-volatility assets, against-consensus calls).

For each prediction:

Quote/summarize the prediction and the reason for the prediction, the associated company, stock or asset symbol if possible, and the timestamp of the prediction.`,
}

// Prompts renders the instruction templates for the built-in purposes.
// Template storage is fs-agnostic: built-ins can be overridden from any
// fs.FS or an in-memory map.
type Prompts struct {
	env       *stick.Env
	templates map[string]string
}

// PromptOption configures a Prompts instance.
type PromptOption func(*Prompts) error

// WithTemplateFS loads every *.twig file found under dir in the supplied
// FS, keyed by base name without the extension.
func WithTemplateFS(fsys fs.FS, dir string) PromptOption {
	return func(p *Prompts) error {
		return fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".twig") {
				return nil
			}
			content, readErr := fs.ReadFile(fsys, path)
			if readErr != nil {
				return fmt.Errorf("read %s: %w", path, readErr)
			}
			tag := strings.TrimSuffix(filepath.Base(path), ".twig")
			p.templates[tag] = string(content)
			return nil
		})
	}
}

// WithTemplate updates or inserts one template.
func WithTemplate(purpose, tpl string) PromptOption {
	return func(p *Prompts) error {
		p.templates[purpose] = tpl
		return nil
	}
}

// NewPrompts builds a prompt renderer preloaded with the built-in
// templates.
func NewPrompts(opts ...PromptOption) (*Prompts, error) {
	p := &Prompts{
		env:       stick.New(nil),
		templates: make(map[string]string, len(builtinTemplates)),
	}
	for tag, tpl := range builtinTemplates {
		p.templates[tag] = tpl
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Render executes the template for the purpose with the given variables.
func (p *Prompts) Render(purpose string, vars map[string]stick.Value) (string, error) {
	tpl, ok := p.templates[purpose]
	if !ok {
		return "", fmt.Errorf("render %q: %w", purpose, ErrUnknownPurpose)
	}
	var out strings.Builder
	if err := p.env.Execute(tpl, &out, vars); err != nil {
		return "", fmt.Errorf("render %q: %w", purpose, err)
	}
	return out.String(), nil
}
