package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed sample_questions.json
var sampleQuestionsJSON []byte

// SampleSet is the canned content shown for one database.
type SampleSet struct {
	Placeholder string   `json:"placeholder"`
	Questions   []string `json:"questions"`
}

// FallbackPlaceholder is used for databases without a sample set.
const FallbackPlaceholder = "Ask about movies, actors, ratings..."

var sampleSets = mustLoadSamples(sampleQuestionsJSON)

func mustLoadSamples(raw []byte) map[string]SampleSet {
	sets := map[string]SampleSet{}
	if err := json.Unmarshal(raw, &sets); err != nil {
		panic(fmt.Errorf("invalid embedded sample questions: %w", err))
	}
	return sets
}

// SampleQuestions returns the sample questions for a database; an unknown
// identifier yields an empty list.
func SampleQuestions(database string) []string {
	set, ok := sampleSets[database]
	if !ok {
		return []string{}
	}
	out := make([]string, len(set.Questions))
	copy(out, set.Questions)
	return out
}

// Placeholder returns the question box hint for a database.
func Placeholder(database string) string {
	if set, ok := sampleSets[database]; ok && set.Placeholder != "" {
		return set.Placeholder
	}
	return FallbackPlaceholder
}
