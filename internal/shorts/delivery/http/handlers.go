package http

import (
	"net/http"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/amankumarsingh77/shortform-backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type shortsHandler struct {
	shortsUC  shorts.UseCase
	redisRepo shorts.RedisRepository
	logger    logger.Logger
}

func NewShortsHandler(shortsUC shorts.UseCase, redisRepo shorts.RedisRepository, log logger.Logger) shorts.Handler {
	return &shortsHandler{
		shortsUC:  shortsUC,
		redisRepo: redisRepo,
		logger:    log,
	}
}

func (h *shortsHandler) CreateJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.CreateShortInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		job, err := h.shortsUC.CreateJob(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusAccepted, job)
	}
}

func (h *shortsHandler) GetJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")
		job, err := h.shortsUC.GetJob(c.Request().Context(), jobID)
		if err != nil {
			if errors.Is(err, shorts.ErrJobNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *shortsHandler) ListVoices() echo.HandlerFunc {
	return func(c echo.Context) error {
		voices, err := h.shortsUC.ListVoices(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"voices": voices})
	}
}

func (h *shortsHandler) ListMusic() echo.HandlerFunc {
	return func(c echo.Context) error {
		tracks, err := h.shortsUC.ListMusic(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"music": tracks})
	}
}
