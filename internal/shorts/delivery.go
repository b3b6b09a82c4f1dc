package shorts

import "github.com/labstack/echo/v4"

type Handler interface {
	CreateJob() echo.HandlerFunc
	GetJob() echo.HandlerFunc
	StreamProgress() echo.HandlerFunc
	ListVoices() echo.HandlerFunc
	ListMusic() echo.HandlerFunc
}
