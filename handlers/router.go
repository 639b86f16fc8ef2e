package handlers

import (
	"time"

	"dbassistant/render"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router builds the gin engine serving the page, the JSON API and the
// operational endpoints.
func (h *Handlers) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))

	// Allow all origins, headers and methods.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "Accept", "Cache-Control", "X-Requested-With", SessionHeader)
	corsConfig.ExposeHeaders = []string{SessionHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"}
	corsConfig.MaxAge = 24 * time.Hour
	r.Use(cors.New(corsConfig))

	r.SetHTMLTemplate(render.PageTemplate())

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", h.HealthHandler)
	r.GET("/metrics", h.MetricsHandler)

	// Reset routes resolve the id themselves so they never mount a panel.
	r.POST("/reset", h.ResetFormHandler)
	r.DELETE("/api/panel", h.ResetPanelHandler)

	panel := r.Group("/", h.SessionMiddleware())
	{
		panel.GET("/", h.PageHandler)
		panel.POST("/ask", h.AskFormHandler)
		panel.POST("/clear", h.ClearFormHandler)
		panel.POST("/samples/:index", h.SampleFormHandler)
		panel.POST("/database", h.DatabaseFormHandler)
		panel.POST("/options", h.OptionsFormHandler)

		panel.GET("/api/panel", h.GetPanelHandler)
		panel.POST("/api/panel/ask", h.AskPanelHandler)
		panel.POST("/api/panel/clear", h.ClearPanelHandler)
		panel.POST("/api/panel/samples/:index", h.SelectSampleHandler)
		panel.GET("/api/samples", h.ListSamplesHandler)
	}

	return r
}

// RequestLogger logs one line per request through zerolog.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		if id := sessionID(c); id != "" {
			event = event.Str("session", id)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Request handled")
	}
}
