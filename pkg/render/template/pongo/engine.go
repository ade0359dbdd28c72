package pongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-internsite/pkg/render/template"
)

// DefaultExtension is appended to template names that carry no extension.
const DefaultExtension = ".html"

// Option configures the engine before construction.
type Option func(*Engine)

// WithFilters registers template filters. pongo2 filters are process wide:
// the first registration of a name wins and later ones are ignored.
func WithFilters(filters map[string]pongo2.FilterFunction) Option {
	return func(e *Engine) {
		for name, fn := range filters {
			if name = strings.TrimSpace(name); name != "" && fn != nil {
				e.filters[name] = fn
			}
		}
	}
}

// WithGlobals publishes values to every template rendered by the engine.
// Request data with the same key shadows a global.
func WithGlobals(globals map[string]any) Option {
	return func(e *Engine) {
		for key, value := range globals {
			if key = strings.TrimSpace(key); key != "" {
				e.globals[key] = value
			}
		}
	}
}

// Engine renders templates from an fs.FS through a pongo2 template set.
// Parsed templates are cached for the lifetime of the engine.
type Engine struct {
	mu      sync.Mutex
	set     *pongo2.TemplateSet
	cache   map[string]*pongo2.Template
	filters map[string]pongo2.FilterFunction
	globals map[string]any
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine over views.
func New(views fs.FS, opts ...Option) (*Engine, error) {
	if views == nil {
		return nil, errors.New("pongo: template fs is required")
	}
	e := &Engine{
		set:     pongo2.NewSet("internsite", pongo2.NewFSLoader(views)),
		cache:   make(map[string]*pongo2.Template),
		filters: make(map[string]pongo2.FilterFunction),
		globals: make(map[string]any),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	for name, fn := range e.filters {
		if pongo2.FilterExists(name) {
			continue
		}
		if err := pongo2.RegisterFilter(name, fn); err != nil {
			return nil, fmt.Errorf("pongo: register filter %q: %w", name, err)
		}
	}
	globals, err := toContext(e.globals)
	if err != nil {
		return nil, fmt.Errorf("pongo: globals: %w", err)
	}
	e.set.Globals = globals
	return e, nil
}

// RenderTemplate renders name, appending DefaultExtension when it has none.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	if !strings.Contains(name, ".") {
		name += DefaultExtension
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("pongo: execute %s: %w", name, err)
	}
	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, err
		}
	}
	return rendered, nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("pongo: load %s: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

// toContext keeps maps, slices and scalars as native values so integer
// comparisons in templates behave. Anything else (structs, typed slices)
// goes through encoding/json so templates address fields by json tag.
func toContext(data map[string]any) (pongo2.Context, error) {
	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		v, err := plain(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		ctx[key] = v
	}
	return ctx, nil
}

func plain(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int, int64, float64, []string, map[string]string:
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			p, err := plain(item)
			if err != nil {
				return nil, err
			}
			out[key] = p
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			p, err := plain(item)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	}

	switch reflect.Indirect(reflect.ValueOf(value)).Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	default:
		return value, nil
	}
}
