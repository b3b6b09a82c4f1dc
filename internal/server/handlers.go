package server

import (
	"net/http"

	"github.com/amankumarsingh77/shortform-backend/internal/middleware"
	shortsHttp "github.com/amankumarsingh77/shortform-backend/internal/shorts/delivery/http"
	shortsRepository "github.com/amankumarsingh77/shortform-backend/internal/shorts/repository"
	shortsUsecase "github.com/amankumarsingh77/shortform-backend/internal/shorts/usecase"
	"github.com/amankumarsingh77/shortform-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	catalogRepo := shortsRepository.NewCatalogRepo(s.db)
	sRedisRepo := shortsRepository.NewShortsRedisRepo(s.redisClient, s.cfg)

	shortsUC := shortsUsecase.NewShortsUseCase(s.cfg, catalogRepo, sRedisRepo, s.logger)

	shortsHandlers := shortsHttp.NewShortsHandler(shortsUC, sRedisRepo, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	shortsGroup := v1.Group("/shorts")

	shortsHttp.MapShortsRoutes(shortsGroup, shortsHandlers)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
