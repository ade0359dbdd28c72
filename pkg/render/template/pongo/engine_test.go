package pongo_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-internsite/pkg/render/template/pongo"
	"github.com/goliatone/go-internsite/pkg/testsupport"
)

//go:embed testdata/templates
var embeddedTemplates embed.FS

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	assertGolden(t, "hello.golden", result, written)
}

func TestEngine_Globals(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobals(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})
	assertGolden(t, "use-global.golden", result, written)
}

func TestEngine_RequestDataShadowsGlobals(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobals(map[string]any{"name": "Global"}))

	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(got, "Hello Ada!") {
		t.Fatalf("request data did not shadow global: %q", got)
	}
}

func TestEngine_Filters(t *testing.T) {
	shout := func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(fmt.Sprintf("%s!", strings.ToUpper(in.String()))), nil
	}
	engine := newEngine(t, pongo.WithFilters(map[string]pongo2.FilterFunction{"shout_engine_test": shout}))
	// A second engine registering the same name keeps the first filter.
	newEngine(t, pongo.WithFilters(map[string]pongo2.FilterFunction{"shout_engine_test": shout}))

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})
	assertGolden(t, "use-filter.golden", result, written)
}

func TestEngine_IncludeKeepsIntegers(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("include.html", map[string]any{"step": 4, "total": 4}, w)
	})
	assertGolden(t, "include.golden", result, written)
}

func TestEngine_StructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)

	type page struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	got, err := engine.RenderTemplate("struct", map[string]any{
		"page": page{Title: "Programs", Tags: []string{"go", "web"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Programs:[go][web]\n"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEngine_CachesParsedTemplates(t *testing.T) {
	views := fstest.MapFS{"page.html": {Data: []byte("v1")}}
	engine, err := pongo.New(views)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if got, _ := engine.RenderTemplate("page", nil); got != "v1" {
		t.Fatalf("first render = %q", got)
	}
	views["page.html"] = &fstest.MapFile{Data: []byte("v2")}
	if got, _ := engine.RenderTemplate("page", nil); got != "v1" {
		t.Fatalf("cached render = %q", got)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestNew_RequiresFS(t *testing.T) {
	if _, err := pongo.New(nil); err == nil {
		t.Fatalf("expected error without a template fs")
	}
}

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()

	sub, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := pongo.New(sub, opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func assertGolden(t *testing.T, golden, result, written string) {
	t.Helper()

	path := filepath.Join("testdata", golden)
	if testsupport.WriteMaybeGolden(t, path, []byte(result)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, path)
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}
