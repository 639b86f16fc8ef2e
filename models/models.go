package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Query is what the panel sends to the backend for one submission.
type Query struct {
	Question       string `json:"question"`
	Database       string `json:"database"`
	MultipleCharts bool   `json:"multiple_charts"`
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question       string `json:"question" example:"Show me top 5 most popular albums with their number of songs"`
	Database       string `json:"database" example:"chinook"`
	MultipleCharts bool   `json:"multiple_charts" example:"true"`
}

// AskResponse is the body returned by POST /api/ask.
type AskResponse struct {
	Success   bool         `json:"success"`
	Data      *ChartResult `json:"data,omitempty"`
	Narrative *Narrative   `json:"narrative,omitempty"`
	Question  string       `json:"question"`
	Database  string       `json:"database,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// DatabasesResponse is the body returned by GET /api/databases.
type DatabasesResponse struct {
	Success   bool    `json:"success"`
	Databases Catalog `json:"databases"`
	Error     string  `json:"error,omitempty"`
}

// HealthResponse is the body returned by the backend's GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Narrative struct {
	Introduction string   `json:"introduction"`
	Transitions  []string `json:"transitions"`
	Insights     []string `json:"insights"`
	Conclusion   string   `json:"conclusion"`
}

// ChartData describes one chart as produced by the backend.
type ChartData struct {
	Title     string      `json:"title"`
	XAxis     string      `json:"x_axis"`
	YAxis     string      `json:"y_axis"`
	ChartType string      `json:"chart_type,omitempty"`
	Data      []DataPoint `json:"data"`
}

// ChartResult holds either a single chart or an ordered list of charts.
// It re-encodes in the same shape it was decoded from.
type ChartResult struct {
	Charts []ChartData
	List   bool
}

// SingleChart wraps one chart as a result.
func SingleChart(c ChartData) *ChartResult {
	return &ChartResult{Charts: []ChartData{c}}
}

// ChartList wraps several charts as a result.
func ChartList(cs ...ChartData) *ChartResult {
	return &ChartResult{Charts: cs, List: true}
}

func (r *ChartResult) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var charts []ChartData
		if err := json.Unmarshal(trimmed, &charts); err != nil {
			return fmt.Errorf("failed to decode chart list: %w", err)
		}
		r.Charts = charts
		r.List = true
		return nil
	}

	var chart ChartData
	if err := json.Unmarshal(trimmed, &chart); err != nil {
		return fmt.Errorf("failed to decode chart: %w", err)
	}
	r.Charts = []ChartData{chart}
	r.List = false
	return nil
}

func (r ChartResult) MarshalJSON() ([]byte, error) {
	if r.List {
		charts := r.Charts
		if charts == nil {
			charts = []ChartData{}
		}
		return json.Marshal(charts)
	}
	if len(r.Charts) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(r.Charts[0])
}

// DataPoint is one point of a chart. Fields the panel does not know about are
// kept in Extra so they survive a round trip. Known fields whose JSON is not
// in the typed form (a numeric label, a text value) are re-encoded as received.
type DataPoint struct {
	Label string
	Value float64
	X     *float64
	Y     *float64
	Extra map[string]json.RawMessage

	raw map[string]json.RawMessage
}

func (p *DataPoint) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("failed to decode data point: %w", err)
	}

	*p = DataPoint{}
	for key, raw := range fields {
		switch key {
		case "label":
			p.Label = decodeLabel(raw)
			if !isString(raw) {
				p.keepRaw(key, raw)
			}
		case "value":
			p.Value, _ = decodeNumber(raw)
			if !isNumber(raw) {
				p.keepRaw(key, raw)
			}
		case "x", "y":
			if v, ok := decodeNumber(raw); ok {
				if key == "x" {
					p.X = &v
				} else {
					p.Y = &v
				}
			}
			if !isNumber(raw) {
				p.keepRaw(key, raw)
			}
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]json.RawMessage)
			}
			p.Extra[key] = raw
		}
	}
	return nil
}

func (p DataPoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["label"] = p.Label
	out["value"] = p.Value
	if p.X != nil {
		out["x"] = *p.X
	}
	if p.Y != nil {
		out["y"] = *p.Y
	}
	for k, v := range p.raw {
		out[k] = v
	}
	return json.Marshal(out)
}

func (p *DataPoint) keepRaw(key string, raw json.RawMessage) {
	if p.raw == nil {
		p.raw = make(map[string]json.RawMessage)
	}
	p.raw[key] = raw
}

func isString(raw json.RawMessage) bool {
	var s string
	return json.Unmarshal(raw, &s) == nil && !isNull(raw)
}

func isNumber(raw json.RawMessage) bool {
	var f float64
	return json.Unmarshal(raw, &f) == nil && !isNull(raw)
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// decodeLabel accepts any JSON scalar; non-strings keep their literal text.
func decodeLabel(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := string(bytes.TrimSpace(raw))
	if text == "null" {
		return ""
	}
	return text
}

// decodeNumber accepts JSON numbers and numeric strings.
func decodeNumber(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// PanelSnapshot is the persisted form of a panel. Loading state is never
// part of it.
type PanelSnapshot struct {
	Question       string       `json:"question"`
	Database       string       `json:"database"`
	MultipleCharts bool         `json:"multiple_charts"`
	Result         *ChartResult `json:"result,omitempty"`
	Narrative      *Narrative   `json:"narrative,omitempty"`
	Error          *string      `json:"error,omitempty"`
	Catalog        Catalog      `json:"catalog"`
	CatalogLoaded  bool         `json:"catalog_loaded"`
	UpdatedAt      string       `json:"updated_at"`
}
