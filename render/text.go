// Package render turns panel views into text for the terminal and provides
// the helpers the HTML page template uses.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"dbassistant/models"
	"dbassistant/service"
)

// Text writes v the way the terminal client shows it.
func Text(w io.Writer, v service.View) error {
	tw := &errWriter{w: w}

	if v.Bubble != nil {
		tw.printf("> %s\n  (database: %s)\n\n", v.Bubble.Text, v.Bubble.Database)
	}

	switch {
	case v.ShowResult:
		if v.Narrative != nil && v.Narrative.Introduction != "" {
			tw.printf("%s\n\n", v.Narrative.Introduction)
		}
		if len(v.Charts) == 0 {
			tw.printf("No chart data returned.\n\n")
		}
		for i, chart := range v.Charts {
			if i > 0 && v.Narrative != nil && i-1 < len(v.Narrative.Transitions) {
				tw.printf("%s\n\n", v.Narrative.Transitions[i-1])
			}
			if err := Chart(tw, chart); err != nil {
				return err
			}
			tw.printf("\n")
		}
		if v.Narrative != nil {
			if len(v.Narrative.Insights) > 0 {
				tw.printf("Insights:\n")
				for _, insight := range v.Narrative.Insights {
					tw.printf("  - %s\n", insight)
				}
				tw.printf("\n")
			}
			if v.Narrative.Conclusion != "" {
				tw.printf("%s\n", v.Narrative.Conclusion)
			}
		}
	case v.Error != nil:
		tw.printf("%s\n  %s\n%s\n", v.Error.Title, v.Error.Message, v.Error.Hint)
	case v.ShowSamples:
		if len(v.Samples) == 0 {
			tw.printf("No sample questions for %s.\n", v.SelectedDatabase)
			break
		}
		tw.printf("%s\n", service.SamplesTitle)
		for _, s := range v.Samples {
			tw.printf("  %d. %s\n", s.Index+1, s.Text)
		}
	}
	return tw.err
}

// Chart writes one chart as a heading plus a table of its points.
func Chart(w io.Writer, c models.ChartData) error {
	ew := &errWriter{w: w}
	title := c.Title
	if title == "" {
		title = "Untitled chart"
	}
	if c.ChartType != "" {
		ew.printf("%s [%s]\n", title, c.ChartType)
	} else {
		ew.printf("%s\n", title)
	}
	if ew.err != nil {
		return ew.err
	}
	if len(c.Data) == 0 {
		ew.printf("  (no data)\n")
		return ew.err
	}

	extras := ExtraColumns(c.Data)
	hasXY := HasXY(c.Data)

	tab := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"  " + orDefault(c.XAxis, "Label"), orDefault(c.YAxis, "Value")}
	if hasXY {
		header = append(header, "x", "y")
	}
	header = append(header, extras...)
	fmt.Fprintln(tab, strings.Join(header, "\t"))

	for _, p := range c.Data {
		row := []string{"  " + p.Label, FormatNumber(p.Value)}
		if hasXY {
			row = append(row, formatOptional(p.X), formatOptional(p.Y))
		}
		for _, key := range extras {
			row = append(row, ExtraValue(p, key))
		}
		fmt.Fprintln(tab, strings.Join(row, "\t"))
	}
	return tab.Flush()
}

// Databases writes the catalog as a two column list.
func Databases(w io.Writer, opts []service.DatabaseOption) error {
	tab := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, o := range opts {
		marker := " "
		if o.Selected {
			marker = "*"
		}
		fmt.Fprintf(tab, "%s %s\t%s\t%s\n", marker, o.Key, o.Label, o.Description)
	}
	return tab.Flush()
}

// FormatNumber prints integers without a fraction and other values with
// the shortest exact representation.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) && f < 1e15 && f > -1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// HasXY reports whether any point carries x/y coordinates.
func HasXY(points []models.DataPoint) bool {
	for _, p := range points {
		if p.X != nil || p.Y != nil {
			return true
		}
	}
	return false
}

// ExtraColumns returns the sorted union of extra field names.
func ExtraColumns(points []models.DataPoint) []string {
	seen := map[string]bool{}
	for _, p := range points {
		for k := range p.Extra {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExtraValue renders an extra field; strings lose their quotes.
func ExtraValue(p models.DataPoint, key string) string {
	raw, ok := p.Extra[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return FormatNumber(*f)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
