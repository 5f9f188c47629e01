// Package render adapts the pongo2 template engine to echo's Renderer
// interface, loading templates from an embedded filesystem.
package render

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/flosch/pongo2/v6"
	"github.com/labstack/echo/v4"
)

type Renderer struct {
	set *pongo2.TemplateSet
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer builds a renderer over the given filesystem. With debug set,
// templates are re-read on every render instead of being cached.
func NewRenderer(fsys fs.FS, debug bool) *Renderer {
	set := pongo2.NewSet("webapp", pongo2.NewFSLoader(fsys))
	set.Debug = debug
	return &Renderer{set: set}
}

// Render executes the named template with the given context mapping.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	var ctx pongo2.Context
	switch v := data.(type) {
	case nil:
		ctx = pongo2.Context{}
	case pongo2.Context:
		ctx = v
	case map[string]interface{}:
		ctx = pongo2.Context(v)
	default:
		return fmt.Errorf("render %s: unsupported context type %T", name, data)
	}

	tpl, err := r.set.FromCache(name)
	if err != nil {
		return fmt.Errorf("load template %s: %w", name, err)
	}
	return tpl.ExecuteWriter(ctx, w)
}
