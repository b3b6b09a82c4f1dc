package http

import (
	"net/http"

	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamProgress upgrades to a websocket, replays the current job state and
// then relays tracker updates until the job is terminal or the client leaves.
func (h *shortsHandler) StreamProgress() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")

		job, err := h.shortsUC.GetJob(c.Request().Context(), jobID)
		if err != nil {
			if errors.Is(err, shorts.ErrJobNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}
		defer ws.Close()

		ctx := c.Request().Context()
		if err := ws.WriteJSON(job); err != nil {
			return nil
		}
		if job.Status.Terminal() {
			return nil
		}

		updates, closeSub, err := h.redisRepo.SubscribeToJob(ctx, jobID)
		if err != nil {
			h.logger.Errorf("StreamProgress - subscribe failed for job %s: %v", jobID, err)
			return nil
		}
		defer closeSub()

		for {
			select {
			case <-ctx.Done():
				return nil
			case update, ok := <-updates:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(update); err != nil {
					return nil
				}
				if update.Status.Terminal() {
					return nil
				}
			}
		}
	}
}
