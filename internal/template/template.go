// Package template renders user-supplied document templates against
// records. Templates use mustache syntax; nested fields are addressed
// with dotted paths ({{address.city}}).
package template

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/cbroglie/mustache"

	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/model"
)

// maxTemplateBytes caps remote template downloads.
const maxTemplateBytes = 4 << 20

// Processor renders templates for one export run.
type Processor struct {
	// Strict rejects templates that reference fields absent from the
	// record instead of substituting an empty string.
	Strict bool
}

func NewProcessor(strict bool) *Processor {
	return &Processor{Strict: strict}
}

// Render substitutes record fields into tmpl. Unknown references render
// as empty strings unless Strict is set.
func (p *Processor) Render(tmpl string, obj *model.Object) (string, error) {
	parsed, err := mustache.ParseString(tmpl)
	if err != nil {
		return "", errors.TemplateFailed("parse template", err)
	}
	if p.Strict {
		if err := p.validate(parsed, obj); err != nil {
			return "", err
		}
	}
	out, err := parsed.Render(obj.Any())
	if err != nil {
		return "", errors.TemplateFailed("render template", err)
	}
	return out, nil
}

// validate checks top-level tag names against the record's field paths.
// Names inside sections resolve against the section's own context, so
// only the outermost level is checked.
func (p *Processor) validate(parsed *mustache.Template, obj *model.Object) error {
	known := make(map[string]bool)
	for _, path := range obj.Paths() {
		known[path] = true
	}
	for _, leaf := range obj.Leaves() {
		known[leaf.Path] = true
	}

	var missing []string
	for _, tag := range parsed.Tags() {
		switch tag.Type() {
		case mustache.Variable, mustache.Section, mustache.InvertedSection:
			name := tag.Name()
			if name == "." || known[name] {
				continue
			}
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.CategoryTemplate, errors.SeverityError,
			fmt.Sprintf("template references unknown fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// LoadSource reads template text from a local path or an HTTP(S) URL.
func LoadSource(ctx context.Context, ref string, client *http.Client) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return fetchTemplate(ctx, ref, client)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", errors.TemplateFailed(fmt.Sprintf("read template %s", ref), err)
	}
	return string(data), nil
}

func fetchTemplate(ctx context.Context, url string, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.TemplateFailed("build template request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", errors.RequestFailed(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.UnexpectedStatus(url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateBytes))
	if err != nil {
		return "", errors.TemplateFailed("read template response", err)
	}
	return string(data), nil
}
