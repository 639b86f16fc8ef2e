package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"dbassistant/config"
	"dbassistant/models"

	"github.com/gin-gonic/gin"
)

// PanelAskRequest is the body of POST /api/panel/ask. Omitted fields keep
// the panel's current selection.
type PanelAskRequest struct {
	Question       string `json:"question" example:"Show me top 5 most popular albums with their number of songs"`
	Database       string `json:"database,omitempty" example:"chinook"`
	MultipleCharts *bool  `json:"multiple_charts,omitempty" example:"true"`
}

// SamplesResponse lists the sample questions of one database.
type SamplesResponse struct {
	Database    string   `json:"database" example:"chinook"`
	Placeholder string   `json:"placeholder"`
	Questions   []string `json:"questions"`
}

// GetPanelHandler returns the caller's panel
// @Summary      Current panel
// @Description  Returns what the query panel of this session shows right now
// @Tags         Panel
// @Produce      json
// @Param        X-Session-ID  header    string        false  "Session id; a cookie is used when omitted"
// @Success      200           {object}  service.View  "Panel view"
// @Router       /api/panel [get]
func (h *Handlers) GetPanelHandler(c *gin.Context) {
	c.JSON(http.StatusOK, panelFrom(c).View())
}

// AskPanelHandler submits a question and waits for the answer
// @Summary      Ask a question
// @Description  Sends the question to the analytics backend for the selected database. Backend failures are reported in the view's error panel, not as HTTP errors.
// @Tags         Panel
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string           false  "Session id; a cookie is used when omitted"
// @Param        request       body      PanelAskRequest  true   "Question"
// @Success      200           {object}  service.View     "Panel view after the answer"
// @Failure      400           {object}  ErrorResponse    "Empty question or unknown database"
// @Failure      409           {object}  ErrorResponse    "A question is already being answered"
// @Router       /api/panel/ask [post]
func (h *Handlers) AskPanelHandler(c *gin.Context) {
	var req PanelAskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	p := panelFrom(c)
	current := p.State()
	q := models.Query{Question: req.Question, Database: req.Database, MultipleCharts: current.MultipleCharts}
	if q.Database == "" {
		q.Database = current.Database
	}
	if req.MultipleCharts != nil {
		q.MultipleCharts = *req.MultipleCharts
	}

	if err := p.Submit(c.Request.Context(), q); err != nil {
		abortJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, p.View())
}

// ClearPanelHandler clears the question and the shown answer
// @Summary      Clear the panel
// @Tags         Panel
// @Produce      json
// @Param        X-Session-ID  header    string        false  "Session id; a cookie is used when omitted"
// @Success      200           {object}  service.View  "Panel view after clearing"
// @Router       /api/panel/clear [post]
func (h *Handlers) ClearPanelHandler(c *gin.Context) {
	p := panelFrom(c)
	p.Clear()
	c.JSON(http.StatusOK, p.View())
}

// ResetPanelHandler ends the session
// @Summary      Reset the session
// @Description  Forgets the session's panel and its saved snapshot and expires the session cookie. The next request with the same id gets a fresh panel.
// @Tags         Panel
// @Param        X-Session-ID  header  string  false  "Session id; a cookie is used when omitted"
// @Success      204  "Session reset"
// @Router       /api/panel [delete]
func (h *Handlers) ResetPanelHandler(c *gin.Context) {
	h.endSession(c)
	c.Status(http.StatusNoContent)
}

// SelectSampleHandler fills the question box with a sample question
// @Summary      Use a sample question
// @Description  Copies the sample question at index into the question box. Nothing is submitted.
// @Tags         Panel
// @Produce      json
// @Param        X-Session-ID  header    string         false  "Session id; a cookie is used when omitted"
// @Param        index         path      int            true   "Sample index, starting at 0"
// @Success      200           {object}  service.View   "Panel view"
// @Failure      400           {object}  ErrorResponse  "Index is not a number"
// @Failure      404           {object}  ErrorResponse  "No such sample"
// @Failure      409           {object}  ErrorResponse  "A question is already being answered"
// @Router       /api/panel/samples/{index} [post]
func (h *Handlers) SelectSampleHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid sample index"})
		return
	}
	p := panelFrom(c)
	if err := p.SelectSample(index); err != nil {
		abortJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, p.View())
}

// ListSamplesHandler lists sample questions
// @Summary      Sample questions
// @Description  Lists the sample questions of a database, or of the panel's selected database when none is given. Unknown databases have none.
// @Tags         Panel
// @Produce      json
// @Param        database  query     string           false  "Database identifier"
// @Success      200       {object}  SamplesResponse  "Sample questions"
// @Router       /api/samples [get]
func (h *Handlers) ListSamplesHandler(c *gin.Context) {
	database := strings.TrimSpace(c.Query("database"))
	if database == "" {
		database = panelFrom(c).State().Database
	}
	c.JSON(http.StatusOK, SamplesResponse{
		Database:    database,
		Placeholder: config.Placeholder(database),
		Questions:   config.SampleQuestions(database),
	})
}
