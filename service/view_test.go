package service

import (
	"testing"

	"dbassistant/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildView_Initial(t *testing.T) {
	v := BuildView(NewPanel(&fakeBackend{}).State())

	assert.Equal(t, PanelTitle, v.Title)
	assert.Nil(t, v.Bubble)
	assert.False(t, v.ShowResult)
	assert.Nil(t, v.Error)
	assert.True(t, v.ShowSamples)
	require.Len(t, v.Samples, 6)
	assert.Equal(t, Sample{Index: 0, Text: "Show me top 5 most popular albums with their number of songs"}, v.Samples[0])
	assert.True(t, v.LoadingCatalog)
	assert.Empty(t, v.Databases)
	assert.False(t, v.CanSend)
	assert.Equal(t, "Ask about music data, artists, albums, sales...", v.Placeholder)
}

func TestBuildView_DatabaseOptions(t *testing.T) {
	s := State{Database: "world", Catalog: threeDatabases()}
	v := BuildView(s)

	require.Len(t, v.Databases, 3)
	labels := []string{v.Databases[0].Label, v.Databases[1].Label, v.Databases[2].Label}
	assert.Equal(t, []string{"Chinook", "World", "Imdb"}, labels)
	assert.True(t, v.Databases[1].Selected)
	assert.False(t, v.Databases[0].Selected)
	assert.Equal(t, "Global geographic database", v.Databases[1].Description)
}

func TestBuildView_UnknownDatabaseHasNoSamples(t *testing.T) {
	v := BuildView(State{Database: "sakila"})
	assert.True(t, v.ShowSamples)
	assert.Empty(t, v.Samples)
	assert.Equal(t, "Ask about movies, actors, ratings...", v.Placeholder)
}

func TestBuildView_Result(t *testing.T) {
	s := State{
		Question:  "Show me top 5 most popular albums with their number of songs",
		Database:  "chinook",
		Result:    topAlbums(),
		Narrative: &models.Narrative{Introduction: "Here is what we found"},
	}
	v := BuildView(s)

	require.NotNil(t, v.Bubble)
	assert.Equal(t, QuestionBubble{Text: s.Question, Database: "chinook"}, *v.Bubble)
	assert.True(t, v.ShowResult)
	require.Len(t, v.Charts, 1)
	assert.Equal(t, "Top 5 Albums", v.Charts[0].Title)
	assert.Equal(t, "Here is what we found", v.Narrative.Introduction)
	assert.False(t, v.ShowSamples)
	assert.Empty(t, v.Samples)
	assert.Nil(t, v.Error)
	assert.True(t, v.CanSend)
}

func TestBuildView_Error(t *testing.T) {
	msg := "table not found"
	v := BuildView(State{Question: "q", Database: "chinook", Error: &msg})

	require.NotNil(t, v.Error)
	assert.Equal(t, "table not found", v.Error.Message)
	assert.Equal(t, ErrorTitle, v.Error.Title)
	assert.Equal(t, RephraseHint, v.Error.Hint)
	assert.False(t, v.ShowResult)
	assert.False(t, v.ShowSamples)
}

func TestBuildView_Loading(t *testing.T) {
	v := BuildView(State{Question: "q", Database: "chinook", Loading: true})
	assert.True(t, v.Loading)
	assert.True(t, v.ControlsDisabled)
	assert.False(t, v.CanSend)
	require.NotNil(t, v.Bubble)
}

func TestBuildView_WhitespaceQuestionShowsBubbleButCannotSend(t *testing.T) {
	v := BuildView(State{Question: "  ", Database: "chinook"})
	assert.NotNil(t, v.Bubble)
	assert.False(t, v.CanSend)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Chinook", Capitalize("chinook"))
	assert.Equal(t, "Imdb", Capitalize("imdb"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Émile", Capitalize("émile"))
	assert.Equal(t, "9lives", Capitalize("9lives"))
}
