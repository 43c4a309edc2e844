package chart

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
)

// PlotlyCDN is the script the standalone pages load Plotly from.
const PlotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTemplate = template.Must(template.New("figure").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.Script}}"></script>
</head>
<body>
<div id="figure"></div>
<script>
var fig = {{.Figure}};
Plotly.newPlot("figure", fig.data, fig.layout, {responsive: true});
</script>
</body>
</html>
`))

type page struct {
	Title  string
	Script string
	Figure json.RawMessage
}

// WriteHTML writes fig as a standalone page that renders it with Plotly.
func WriteHTML(w io.Writer, title string, fig json.RawMessage) error {
	if !json.Valid(fig) {
		return fmt.Errorf("figure %q is not valid JSON", title)
	}
	return pageTemplate.Execute(w, page{Title: title, Script: PlotlyCDN, Figure: fig})
}

// WriteHTMLDir writes one <name>.html page per figure into dir, creating it
// if needed, and returns the written paths in name order.
func WriteHTMLDir(dir string, vis domain.Visualizations) ([]string, error) {
	if len(vis) == 0 {
		return nil, fmt.Errorf("no figures to write")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	names := make([]string, 0, len(vis))
	for name := range vis {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name+".html")
		if err := writeHTMLFile(path, name, vis[name]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeHTMLFile(path, name string, fig json.RawMessage) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteHTML(f, Capitalize(name), fig); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
