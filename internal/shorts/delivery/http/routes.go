package http

import (
	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/labstack/echo/v4"
)

func MapShortsRoutes(shortsGroup *echo.Group, h shorts.Handler) {
	shortsGroup.POST("/jobs", h.CreateJob())
	shortsGroup.GET("/jobs/:job_id", h.GetJob())
	shortsGroup.GET("/jobs/:job_id/progress", h.StreamProgress())
	shortsGroup.GET("/voices", h.ListVoices())
	shortsGroup.GET("/music", h.ListMusic())
}
