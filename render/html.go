package render

import (
	_ "embed"
	"encoding/json"
	"html/template"

	"dbassistant/models"
)

//go:embed templates/page.html
var pageHTML string

// PageTemplateName is the name the page is registered under.
const PageTemplateName = "page.html"

// Funcs are the helpers available to the page template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"number":       FormatNumber,
		"optional":     formatOptional,
		"hasXY":        HasXY,
		"extraColumns": ExtraColumns,
		"extraValue":   ExtraValue,
		"chartJSON":    chartJSON,
		"transition":   transition,
	}
}

// PageTemplate parses the embedded panel page.
func PageTemplate() *template.Template {
	return template.Must(template.New(PageTemplateName).Funcs(Funcs()).Parse(pageHTML))
}

// chartJSON embeds a chart for client-side charting libraries.
func chartJSON(c models.ChartData) (template.JS, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

// transition returns the sentence that leads into chart i, if any.
func transition(n *models.Narrative, i int) string {
	if n == nil || i <= 0 || i-1 >= len(n.Transitions) {
		return ""
	}
	return n.Transitions[i-1]
}
