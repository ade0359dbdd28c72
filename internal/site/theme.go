package site

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

//go:embed themes/internsite.yaml
var defaultThemeManifest []byte

// ErrThemeNotFound is returned when a theme or variant is not registered.
var ErrThemeNotFound = errors.New("site: theme not found")

type manifestFile struct {
	Name     string                 `yaml:"name"`
	Version  string                 `yaml:"version"`
	Tokens   map[string]string      `yaml:"tokens"`
	Assets   assetsFile             `yaml:"assets"`
	Variants map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens map[string]string `yaml:"tokens"`
	Assets assetsFile        `yaml:"assets"`
}

// ParseThemeManifest decodes a YAML theme manifest.
func ParseThemeManifest(data []byte) (*theme.Manifest, error) {
	var file manifestFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("site: parse theme: %w", err)
	}
	m := &theme.Manifest{
		Name:    file.Name,
		Version: file.Version,
		Tokens:  file.Tokens,
		Assets:  theme.Assets{Prefix: file.Assets.Prefix, Files: file.Assets.Files},
	}
	if len(file.Variants) > 0 {
		m.Variants = make(map[string]theme.Variant, len(file.Variants))
		for name, v := range file.Variants {
			m.Variants[name] = theme.Variant{
				Tokens: v.Tokens,
				Assets: theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return m, nil
}

// Themes holds the registered manifests and resolves selections against
// them. It implements theme.ThemeSelector.
type Themes struct {
	registry  interface{ Register(*theme.Manifest) error }
	manifests map[string]*theme.Manifest
	fallback  string
}

// NewThemes validates and registers every manifest. The first one becomes the
// fallback when a selection names no theme.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	t := &Themes{
		registry:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if err := t.registry.Register(m); err != nil {
			return nil, fmt.Errorf("site: register theme %q: %w", m.Name, err)
		}
		t.manifests[m.Name] = m
		if t.fallback == "" {
			t.fallback = m.Name
		}
	}
	if t.fallback == "" {
		return nil, fmt.Errorf("%w: no manifests", ErrThemeNotFound)
	}
	return t, nil
}

// DefaultThemes registers the embedded site theme.
func DefaultThemes() (*Themes, error) {
	m, err := ParseThemeManifest(defaultThemeManifest)
	if err != nil {
		return nil, err
	}
	return NewThemes(m)
}

var _ theme.ThemeSelector = (*Themes)(nil)

// Select resolves name and variant. An empty name picks the fallback theme;
// an empty variant selects the base tokens.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = t.fallback
	}
	m, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrThemeNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// RendererConfig flattens a selection into the tokens, CSS variables and
// asset resolver handed to page templates. Variant values override the base.
func RendererConfig(sel *theme.Selection) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return &theme.RendererConfig{AssetURL: func(string) string { return "" }}
	}
	m := sel.Manifest
	tokens := make(map[string]string, len(m.Tokens))
	for k, v := range m.Tokens {
		tokens[k] = v
	}
	prefix := m.Assets.Prefix
	files := make(map[string]string, len(m.Assets.Files))
	for k, v := range m.Assets.Files {
		files[k] = v
	}
	if variant, ok := m.Variants[sel.Variant]; ok {
		for k, v := range variant.Tokens {
			tokens[k] = v
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		for k, v := range variant.Assets.Files {
			files[k] = v
		}
	}
	vars := make(map[string]string, len(tokens))
	for k, v := range tokens {
		vars["--"+k] = v
	}
	return &theme.RendererConfig{
		Theme:   sel.Theme,
		Variant: sel.Variant,
		Tokens:  tokens,
		CSSVars: vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// CSSVarsBlock renders the CSS variables as a :root rule with keys sorted.
func CSSVarsBlock(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for k := range cfg.CSSVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(":root {")
	for _, k := range keys {
		fmt.Fprintf(&b, " %s: %s;", k, cfg.CSSVars[k])
	}
	b.WriteString(" }")
	return b.String()
}
