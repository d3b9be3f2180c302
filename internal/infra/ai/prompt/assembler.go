// Package prompt composes the completion prompt from language-specific
// templates. Assembly is deterministic: the same request and templates
// always produce byte-identical output.
package prompt

import (
	"context"
	"fmt"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

const (
	delimiter   = "USER TEXT TO ANALYZE:"
	responseCue = "ASSISTANT RESPONSE (JSON ONLY):"
)

// Assembler builds prompts over a template store. It performs no
// network I/O and holds no per-request state.
type Assembler struct {
	store domain.TemplateStore
}

func New(store domain.TemplateStore) *Assembler {
	return &Assembler{store: store}
}

// resourceNames returns the two template resources for one language
func resourceNames(lang domain.Language) (string, string) {
	return fmt.Sprintf("system_prompt_%s", lang), fmt.Sprintf("few_shot_examples_%s", lang)
}

// Build concatenates, in fixed order: system instructions, worked
// examples, the delimiter line, the user text, and the JSON-only
// response cue.
func (a *Assembler) Build(ctx context.Context, req domain.Request) (string, error) {
	sysName, exName := resourceNames(req.Language)

	system, err := a.store.Load(ctx, sysName)
	if err != nil {
		return "", domain.Wrap(domain.CodeTemplateMissing, err, sysName)
	}
	examples, err := a.store.Load(ctx, exName)
	if err != nil {
		return "", domain.Wrap(domain.CodeTemplateMissing, err, exName)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n%s\n\n%s\n", system, examples, delimiter, req.Text, responseCue), nil
}

// Warm loads every template for every supported language. Called once
// at startup so a missing template is a boot failure, not a
// per-request surprise.
func (a *Assembler) Warm(ctx context.Context) error {
	for _, lang := range []domain.Language{domain.LanguageRU, domain.LanguageEN} {
		sysName, exName := resourceNames(lang)
		for _, name := range []string{sysName, exName} {
			if _, err := a.store.Load(ctx, name); err != nil {
				return domain.Wrap(domain.CodeTemplateMissing, err, name)
			}
		}
	}
	return nil
}
