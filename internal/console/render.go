// AngelaMos | 2026
// render.go

package console

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/templates/storefront/internal/product"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLogin       = "login.html"
	pageProducts    = "products.html"
	pageProductForm = "product_form.html"
	pageChats       = "chats.html"
	pageThread      = "thread.html"
	pageError       = "error.html"
)

var funcs = template.FuncMap{
	"price":    func(p decimal.Decimal) string { return product.FormatPrice(p) },
	"imageURL": product.ImageURL,
	"stamp":    func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05") },
}

// view is the data every page template receives.
type view struct {
	Title   string
	AdminID string
	Error   string
	Data    any
}

type renderer struct {
	pages map[string]*template.Template
}

// newRenderer parses each page together with the shared layout so that
// every page can define its own "content" block.
func newRenderer() (*renderer, error) {
	names := []string{
		pageLogin,
		pageProducts,
		pageProductForm,
		pageChats,
		pageThread,
		pageError,
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.New(name).
			Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &renderer{pages: pages}, nil
}

// render buffers the page so a template failure never leaves a half
// written response behind.
func (r *renderer) render(w http.ResponseWriter, status int, page string, v view) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %s", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w) //nolint:errcheck // client may have gone away
	return nil
}
