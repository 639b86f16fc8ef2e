package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"dbassistant/config"
	"dbassistant/models"
)

const (
	PanelTitle    = "Database Analytics Assistant"
	PanelSubtitle = "Ask questions about your databases in natural language"
	ErrorTitle    = "Database Error:"
	RephraseHint  = "Try rephrasing your question or asking about different data."
	SamplesTitle  = "Try these sample questions:"
)

// View is what the panel shows for one state. It is derived from State
// only and carries no behaviour.
type View struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`

	Bubble *QuestionBubble `json:"bubble,omitempty"`

	ShowResult bool               `json:"show_result"`
	Charts     []models.ChartData `json:"charts,omitempty"`
	Narrative  *models.Narrative  `json:"narrative,omitempty"`

	Error *ErrorPanel `json:"error,omitempty"`

	ShowSamples bool     `json:"show_samples"`
	Samples     []Sample `json:"samples,omitempty"`

	Databases        []DatabaseOption `json:"databases"`
	SelectedDatabase string           `json:"selected_database"`
	LoadingCatalog   bool             `json:"loading_catalog"`
	Loading          bool             `json:"loading"`
	ControlsDisabled bool             `json:"controls_disabled"`
	CanSend          bool             `json:"can_send"`
	MultipleCharts   bool             `json:"multiple_charts"`
	Question         string           `json:"question"`
	Placeholder      string           `json:"placeholder"`
}

type QuestionBubble struct {
	Text     string `json:"text"`
	Database string `json:"database"`
}

type ErrorPanel struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

type Sample struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type DatabaseOption struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Selected    bool   `json:"selected"`
}

// BuildView applies the rendering policy to s.
func BuildView(s State) View {
	v := View{
		Title:            PanelTitle,
		Subtitle:         PanelSubtitle,
		Databases:        DatabaseOptions(s.Catalog, s.Database),
		SelectedDatabase: s.Database,
		LoadingCatalog:   s.LoadingCatalog,
		Loading:          s.Loading,
		ControlsDisabled: s.Loading,
		CanSend:          !s.Loading && strings.TrimSpace(s.Question) != "",
		MultipleCharts:   s.MultipleCharts,
		Question:         s.Question,
		Placeholder:      config.Placeholder(s.Database),
	}

	if s.Question != "" {
		v.Bubble = &QuestionBubble{Text: s.Question, Database: s.Database}
	}

	switch {
	case s.Result != nil:
		v.ShowResult = true
		v.Charts = s.Result.Charts
		v.Narrative = s.Narrative
	case s.Error != nil:
		v.Error = &ErrorPanel{Title: ErrorTitle, Message: *s.Error, Hint: RephraseHint}
	default:
		v.ShowSamples = true
		for i, q := range config.SampleQuestions(s.Database) {
			v.Samples = append(v.Samples, Sample{Index: i, Text: q})
		}
	}
	return v
}

// DatabaseOptions lists the catalog as selector options in backend order.
func DatabaseOptions(catalog models.Catalog, selected string) []DatabaseOption {
	entries := catalog.Entries()
	opts := make([]DatabaseOption, 0, len(entries))
	for _, e := range entries {
		opts = append(opts, DatabaseOption{
			Key:         e.Key,
			Label:       Capitalize(e.Key),
			Description: e.Description,
			Selected:    e.Key == selected,
		})
	}
	return opts
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
