package web

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/prettyresults/prettyresults/internal/icons"
	"github.com/prettyresults/prettyresults/internal/results"
)

//go:embed assets/index.html.tmpl assets/style.css
var assets embed.FS

const (
	pageTemplate = "index.html.tmpl"
	styleSheet   = "assets/style.css"
)

// parsePage parses the page template with icon lookups bound to set.
// The "children" func is a placeholder replaced per render.
func parsePage(set icons.Set) (*template.Template, error) {
	funcs := template.FuncMap{
		"iconOpen":   set.Open,
		"iconClosed": set.Closed,
		"children": func(*results.ResultNode) ([]*results.ResultNode, error) {
			return nil, nil
		},
	}
	return template.New(pageTemplate).Funcs(funcs).ParseFS(assets, "assets/"+pageTemplate)
}

func readAsset(name string) ([]byte, error) {
	return fs.ReadFile(assets, name)
}
