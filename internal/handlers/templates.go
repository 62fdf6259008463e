package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"sync"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

const layoutFile = "layout.html"

// TemplateCache holds parsed pages. Each page is parsed together with the
// shared layout and rendered through its "layout" template.
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	tc := &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: make(template.FuncMap),
	}
	tc.AddFunc("money", func(v float64) string { return fmt.Sprintf("%.2f", v) })
	tc.AddFunc("pathEscape", url.PathEscape)
	return tc
}

// AddFunc makes fn available to templates parsed by later Load calls.
func (tc *TemplateCache) AddFunc(name string, fn interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// LoadEmbedded parses the templates compiled into the binary.
func (tc *TemplateCache) LoadEmbedded() error {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return err
	}
	return tc.Load(sub)
}

// Load parses every *.html page in fsys against layout.html.
func (tc *TemplateCache) Load(fsys fs.FS) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	files, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return err
	}
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, layoutFile, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// Render executes page into a buffer first so a template error never leaves a
// half-written response.
func (tc *TemplateCache) Render(w http.ResponseWriter, name string, data interface{}) error {
	tmpl := tc.Get(name)
	if tmpl == nil {
		return fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
