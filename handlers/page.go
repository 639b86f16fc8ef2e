package handlers

import (
	"context"
	"net/http"
	"strconv"

	"dbassistant/models"
	"dbassistant/render"

	"github.com/gin-gonic/gin"
)

type askForm struct {
	Question       string `form:"question"`
	Database       string `form:"database"`
	MultipleCharts bool   `form:"multiple_charts"`
}

type databaseForm struct {
	Database string `form:"database"`
	// Question carries the text typed before switching databases.
	Question *string `form:"question"`
}

type optionsForm struct {
	MultipleCharts bool `form:"multiple_charts"`
}

// PageHandler renders the panel page. The page refreshes itself while a
// question is being answered.
func (h *Handlers) PageHandler(c *gin.Context) {
	h.renderPage(c, http.StatusOK)
}

// AskFormHandler starts a submission from the page form. The backend call
// runs after the redirect so the page can show the loading state.
func (h *Handlers) AskFormHandler(c *gin.Context) {
	var form askForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form")
		return
	}

	q := models.Query{Question: form.Question, Database: form.Database, MultipleCharts: form.MultipleCharts}
	if _, err := panelFrom(c).SubmitAsync(context.WithoutCancel(c.Request.Context()), q); err != nil {
		h.renderPage(c, errorStatus(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) ClearFormHandler(c *gin.Context) {
	panelFrom(c).Clear()
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) SampleFormHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid sample index")
		return
	}
	if err := panelFrom(c).SelectSample(index); err != nil {
		h.renderPage(c, errorStatus(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) DatabaseFormHandler(c *gin.Context) {
	var form databaseForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form")
		return
	}
	p := panelFrom(c)
	if form.Question != nil {
		if err := p.SetQuestion(*form.Question); err != nil {
			h.renderPage(c, errorStatus(err))
			return
		}
	}
	if err := p.SelectDatabase(form.Database); err != nil {
		h.renderPage(c, errorStatus(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) OptionsFormHandler(c *gin.Context) {
	var form optionsForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form")
		return
	}
	if err := panelFrom(c).SetMultipleCharts(form.MultipleCharts); err != nil {
		h.renderPage(c, errorStatus(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ResetFormHandler starts the page over with a new session.
func (h *Handlers) ResetFormHandler(c *gin.Context) {
	h.endSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) renderPage(c *gin.Context, status int) {
	c.HTML(status, render.PageTemplateName, panelFrom(c).View())
}
