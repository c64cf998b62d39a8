package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"dronefleet/internal/telemetry"

	"github.com/labstack/echo/v4"
)

// StreamTelemetry handles GET /api/v1/telemetry/stream. It serves the live
// event stream over Server-Sent Events; the optional scope query parameter
// ("global", "order:<id>", "vehicle:<id>") narrows the stream.
//
// Delivery is at-most-once: a client that cannot keep up silently misses
// events and should re-read current state from the drone endpoints.
func (s *Server) StreamTelemetry(ctx echo.Context) error {
	scope, err := telemetry.ParseScope(ctx.QueryParam("scope"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	sub := s.broadcaster.Subscribe(scope)
	defer sub.Close()

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	requestCtx := ctx.Request().Context()
	for {
		select {
		case <-requestCtx.Done():
			return nil
		case event, ok := <-sub.C:
			if !ok {
				return nil
			}
			payload, marshalErr := json.Marshal(event)
			if marshalErr != nil {
				continue
			}
			if _, writeErr := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", event.Type, payload); writeErr != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
