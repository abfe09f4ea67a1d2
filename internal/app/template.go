package app

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"github.com/simp-lee/coconsole/internal/console/listing"
)

// TemplateRenderer is a Gin HTML renderer with layout and partial inheritance.
//
// In debug mode templates are re-parsed from the filesystem on every request.
// In release mode they are parsed once at startup.
//
// Template sets are built per template file:
//  1. Load all layout templates   (templates/layouts/*.html)
//  2. Load all partial templates  (templates/partials/*.html)
//  3. For each template, clone the base set, parse the other files of its
//     directory, then parse the template itself last so its blocks win.
//
// A screen's page.html can therefore include its sibling table.html with
// {{ template "member/table.html" . }}, while table.html and form.html are
// rendered on their own for htmx swaps.
type TemplateRenderer struct {
	templates map[string]*template.Template // template name -> compiled set (release mode only)
	fs        fs.FS
	funcMap   template.FuncMap
	debug     bool
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer creates a TemplateRenderer backed by fsys, which must
// contain a templates/ directory:
//
//	templates/
//	  layouts/   – page skeleton (base.html)
//	  partials/  – shared fragments (nav, filters, pagination)
//	  <screen>/  – page.html, table.html and form.html of one screen
//
// extra funcs are merged over the default helpers.
func NewTemplateRenderer(fsys fs.FS, debug bool, extra template.FuncMap) (*TemplateRenderer, error) {
	funcs := templateFuncMap()
	maps.Copy(funcs, extra)
	r := &TemplateRenderer{
		fs:      fsys,
		funcMap: funcs,
		debug:   debug,
	}

	if !debug {
		templates, err := r.parseAllTemplates()
		if err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
		r.templates = templates
	}

	return r, nil
}

// Instance returns a render.Render executing the named template, a path
// relative to templates/ such as "member/page.html" or "errors/404.html".
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	templates := r.templates
	if r.debug {
		var err error
		templates, err = r.parseAllTemplates()
		if err != nil {
			return &HTMLInstance{Name: name, err: err}
		}
	}
	return &HTMLInstance{
		Template: templates[name],
		Name:     name,
		Data:     data,
	}
}

func (r *TemplateRenderer) parseAllTemplates() (map[string]*template.Template, error) {
	layoutFiles, err := fs.Glob(r.fs, "templates/layouts/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob layouts: %w", err)
	}
	partialFiles, err := fs.Glob(r.fs, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}

	base := template.New("").Funcs(r.funcMap)
	for _, f := range append(layoutFiles, partialFiles...) {
		if err := r.parseFile(base, f); err != nil {
			return nil, err
		}
	}

	pageFiles, err := r.discoverPageTemplates()
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}

	byDir := make(map[string][]string)
	for _, pf := range pageFiles {
		dir := path.Dir(pf)
		byDir[dir] = append(byDir[dir], pf)
	}

	templates := make(map[string]*template.Template, len(pageFiles))
	for _, pf := range pageFiles {
		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", pf, err)
		}
		for _, sibling := range byDir[path.Dir(pf)] {
			if sibling == pf {
				continue
			}
			if err := r.parseFile(set, sibling); err != nil {
				return nil, err
			}
		}
		if err := r.parseFile(set, pf); err != nil {
			return nil, err
		}
		templates[templateName(pf)] = set
	}

	return templates, nil
}

func (r *TemplateRenderer) parseFile(set *template.Template, file string) error {
	content, err := fs.ReadFile(r.fs, file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	if _, err := set.New(templateName(file)).Parse(string(content)); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}
	return nil
}

// discoverPageTemplates finds all .html files under templates/ outside
// layouts/ and partials/.
func (r *TemplateRenderer) discoverPageTemplates() ([]string, error) {
	var pages []string
	err := fs.WalkDir(r.fs, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		rel := templateName(p)
		if strings.HasPrefix(rel, "layouts/") || strings.HasPrefix(rel, "partials/") {
			return nil
		}
		pages = append(pages, p)
		return nil
	})
	return pages, err
}

func templateName(file string) string {
	return strings.TrimPrefix(file, "templates/")
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		// json marshals v for use in script or hx-vals contexts.
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},

		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04:05")
		},

		// formatDay renders t as the value of a date input.
		"formatDay": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},

		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },

		"atLeast": func(n, min int) int { return max(n, min) },

		"seq": func(start, end int) []int {
			if start > end {
				return nil
			}
			s := make([]int, 0, end-start+1)
			for i := start; i <= end; i++ {
				s = append(s, i)
			}
			return s
		},

		// dict builds a map from key/value pairs so partials can take
		// several arguments.
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				k, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				m[k] = pairs[i+1]
			}
			return m, nil
		},

		"has": func(list []string, v string) bool { return slices.Contains(list, v) },

		// sortMark renders the direction arrow of the sorted column.
		"sortMark": func(s listing.Sort, col string) string {
			if s.By != col {
				return ""
			}
			if s.Direction == listing.Desc {
				return " ▼"
			}
			return " ▲"
		},

		"pageSizes": func() []int { return listing.PageSizes },
	}
}

// HTMLInstance executes one template. It is returned by TemplateRenderer.Instance.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error // set when template parsing failed (debug mode)
}

const htmlContentType = "text/html; charset=utf-8"

// Render writes the template output to w.
func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	if h.err != nil {
		return h.err
	}
	if h.Template == nil {
		return fmt.Errorf("template %q not found", h.Name)
	}
	return h.Template.ExecuteTemplate(w, h.Name, h.Data)
}

// WriteContentType sets the HTML Content-Type unless one is already set.
func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{htmlContentType}
	}
}
