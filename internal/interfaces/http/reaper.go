package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ReaperRunResponse struct {
	Released int    `json:"released"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// RunReaperHandler triggers a sweep outside the timer and waits for its
// report. Safe to call concurrently with the scheduled ticks.
func (s *Server) RunReaperHandler(c echo.Context) error {
	report := <-s.reaper.Trigger(c.Request().Context())

	resp := ReaperRunResponse{
		Released: report.Released,
		Skipped:  report.Skipped,
	}
	if report.Err != nil {
		resp.Error = report.Err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}
