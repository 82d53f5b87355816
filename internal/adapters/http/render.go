package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"rollcall/internal/application/projections"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// pages holds the parsed page templates and the pre-rendered help body.
type pages struct {
	index *template.Template
	help  *template.Template
	guide template.HTML
}

// pageData is passed to every page template.
type pageData struct {
	Title string
	View  projections.View
	Help  template.HTML
}

// baseFuncs are replaced per request by renderTemplate; they exist so parsing succeeds.
var baseFuncs = template.FuncMap{
	"csrfToken": func() string { return "" },
	"add":       func(a, b int) int { return a + b },
}

func loadPages(fsys fs.FS) (*pages, error) {
	index, err := template.New("layout.html").Funcs(baseFuncs).ParseFS(fsys, "templates/layout.html", "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	help, err := template.New("layout.html").Funcs(baseFuncs).ParseFS(fsys, "templates/layout.html", "templates/help.html")
	if err != nil {
		return nil, fmt.Errorf("parse help template: %w", err)
	}
	md, err := fs.ReadFile(fsys, "templates/help.md")
	if err != nil {
		return nil, fmt.Errorf("read help: %w", err)
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert(md, &buf); err != nil {
		return nil, fmt.Errorf("render help: %w", err)
	}
	return &pages{index: index, help: help, guide: template.HTML(buf.String())}, nil
}

// renderTemplate executes tpl into a buffer so a failed render never sends a partial page.
func renderTemplate(w http.ResponseWriter, r *http.Request, tpl *template.Template, data pageData) {
	t, err := tpl.Clone()
	if err != nil {
		internalError(w, err)
		return
	}
	t.Funcs(template.FuncMap{
		"csrfToken": func() string { return csrf.Token(r) },
	})

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
