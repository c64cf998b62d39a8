// Package http is the inbound REST and SSE surface of the fleet service.
// It translates requests into commands and queries and maps domain errors
// onto HTTP status codes.
package http

import (
	"errors"
	"net/http"

	"dronefleet/internal/core/application/usecases/commands"
	"dronefleet/internal/core/application/usecases/queries"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"
	"dronefleet/internal/telemetry"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	registerDroneHandler    commands.RegisterDroneCommandHandler
	assignDroneHandler      commands.AssignDroneCommandHandler
	setDroneStatusHandler   commands.SetDroneStatusCommandHandler
	setDroneLocationHandler commands.SetDroneLocationCommandHandler

	// Query handlers
	getAvailableDronesHandler queries.GetAvailableDronesQueryHandler
	getDroneByIDHandler       queries.GetDroneByIDQueryHandler
	getDroneByOrderHandler    queries.GetDroneByOrderQueryHandler

	broadcaster *telemetry.Broadcaster
}

// NewServer creates the HTTP server with its command and query handlers.
func NewServer(
	registerDroneHandler commands.RegisterDroneCommandHandler,
	assignDroneHandler commands.AssignDroneCommandHandler,
	setDroneStatusHandler commands.SetDroneStatusCommandHandler,
	setDroneLocationHandler commands.SetDroneLocationCommandHandler,
	getAvailableDronesHandler queries.GetAvailableDronesQueryHandler,
	getDroneByIDHandler queries.GetDroneByIDQueryHandler,
	getDroneByOrderHandler queries.GetDroneByOrderQueryHandler,
	broadcaster *telemetry.Broadcaster,
) *Server {
	return &Server{
		registerDroneHandler:      registerDroneHandler,
		assignDroneHandler:        assignDroneHandler,
		setDroneStatusHandler:     setDroneStatusHandler,
		setDroneLocationHandler:   setDroneLocationHandler,
		getAvailableDronesHandler: getAvailableDronesHandler,
		getDroneByIDHandler:       getDroneByIDHandler,
		getDroneByOrderHandler:    getDroneByOrderHandler,
		broadcaster:               broadcaster,
	}
}

// RegisterRoutes mounts every endpoint under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/drones", s.RegisterDrone)
	api.GET("/drones/available", s.GetAvailableDrones)
	api.GET("/drones/:id", s.GetDroneByID)
	api.POST("/drones/:id/assignment", s.AssignDrone)
	api.PUT("/drones/:id/status", s.SetDroneStatus)
	api.PUT("/drones/:id/location", s.SetDroneLocation)
	api.GET("/orders/:orderId/drone", s.GetDroneByOrder)
	api.GET("/telemetry/stream", s.StreamTelemetry)
}

// RegisterDrone handles POST /api/v1/drones.
func (s *Server) RegisterDrone(ctx echo.Context) error {
	var req RegisterDroneRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	home, err := geoPointFromWire(req.Home)
	if err != nil {
		return mapError(ctx, err)
	}

	cmd, err := commands.NewRegisterDroneCommand(req.Name, home, req.SpeedKmh)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.registerDroneHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, RegisterDroneResponse{ID: cmd.DroneID().String()})
}

// AssignDrone handles POST /api/v1/drones/:id/assignment.
func (s *Server) AssignDrone(ctx echo.Context) error {
	droneID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid drone id")
	}

	var req AssignDroneRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id")
	}

	destination, err := geoPointFromWire(req.Destination)
	if err != nil {
		return mapError(ctx, err)
	}
	pickup, err := geoPointFromWire(req.Pickup)
	if err != nil {
		return mapError(ctx, err)
	}

	cmd, err := commands.NewAssignDroneCommand(
		droneID, orderID, destination, req.DestinationLabel, pickup, req.PickupLabel)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.assignDroneHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return s.respondWithDrone(ctx, droneID)
}

// SetDroneStatus handles PUT /api/v1/drones/:id/status.
func (s *Server) SetDroneStatus(ctx echo.Context) error {
	droneID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid drone id")
	}

	var req SetStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewSetDroneStatusCommand(droneID, req.Status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.setDroneStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return s.respondWithDrone(ctx, droneID)
}

// SetDroneLocation handles PUT /api/v1/drones/:id/location.
func (s *Server) SetDroneLocation(ctx echo.Context) error {
	droneID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid drone id")
	}

	var req SetLocationRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	position, err := kernel.NewGeoPointWithAltitude(req.Lat, req.Lon, req.Alt)
	if err != nil {
		return mapError(ctx, err)
	}

	cmd, err := commands.NewSetDroneLocationCommand(droneID, position)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.setDroneLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return s.respondWithDrone(ctx, droneID)
}

// GetAvailableDrones handles GET /api/v1/drones/available.
func (s *Server) GetAvailableDrones(ctx echo.Context) error {
	query := queries.NewGetAvailableDronesQuery()

	drones, err := s.getAvailableDronesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	response := make([]DroneSummary, 0, len(drones))
	for _, summary := range drones {
		response = append(response, summaryToWire(summary))
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetDroneByID handles GET /api/v1/drones/:id.
func (s *Server) GetDroneByID(ctx echo.Context) error {
	droneID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid drone id")
	}
	return s.respondWithDrone(ctx, droneID)
}

// GetDroneByOrder handles GET /api/v1/orders/:orderId/drone.
func (s *Server) GetDroneByOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id")
	}

	query, err := queries.NewGetDroneByOrderQuery(orderID)
	if err != nil {
		return mapError(ctx, err)
	}

	detail, err := s.getDroneByOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, detailToWire(detail))
}

func (s *Server) respondWithDrone(ctx echo.Context, droneID kernel.UUID) error {
	query, err := queries.NewGetDroneByIDQuery(droneID)
	if err != nil {
		return mapError(ctx, err)
	}

	detail, err := s.getDroneByIDHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, detailToWire(detail))
}

// mapError translates domain errors onto HTTP status codes.
func mapError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrExternalLookupFailed):
		return errorJSON(ctx, http.StatusBadGateway, err.Error())
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, "internal error")
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}
