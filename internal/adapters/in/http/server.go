// Package http exposes the dispatch use cases over a REST API.
package http

import (
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers for dispatch. It coordinates between
// HTTP requests and application use cases.
type Server struct {
	// Command handlers
	createDeliveryHandler   commands.CreateDeliveryCommandHandler
	acceptOfferHandler      commands.AcceptOfferCommandHandler
	declineOfferHandler     commands.DeclineOfferCommandHandler
	cancelDeliveryHandler   commands.CancelDeliveryCommandHandler
	markPickedUpHandler     commands.MarkPickedUpCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler
	bulkAssignHandler       commands.BulkAssignCourierCommandHandler
	updateTrackingHandler   commands.UpdateTrackingCommandHandler

	// Query handlers
	getDeliveryHandler           queries.GetDeliveryQueryHandler
	getUnassignedClustersHandler queries.GetUnassignedClustersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	createDeliveryHandler commands.CreateDeliveryCommandHandler,
	acceptOfferHandler commands.AcceptOfferCommandHandler,
	declineOfferHandler commands.DeclineOfferCommandHandler,
	cancelDeliveryHandler commands.CancelDeliveryCommandHandler,
	markPickedUpHandler commands.MarkPickedUpCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	bulkAssignHandler commands.BulkAssignCourierCommandHandler,
	updateTrackingHandler commands.UpdateTrackingCommandHandler,
	getDeliveryHandler queries.GetDeliveryQueryHandler,
	getUnassignedClustersHandler queries.GetUnassignedClustersQueryHandler,
) *Server {
	return &Server{
		createDeliveryHandler:        createDeliveryHandler,
		acceptOfferHandler:           acceptOfferHandler,
		declineOfferHandler:          declineOfferHandler,
		cancelDeliveryHandler:        cancelDeliveryHandler,
		markPickedUpHandler:          markPickedUpHandler,
		completeDeliveryHandler:      completeDeliveryHandler,
		bulkAssignHandler:            bulkAssignHandler,
		updateTrackingHandler:        updateTrackingHandler,
		getDeliveryHandler:           getDeliveryHandler,
		getUnassignedClustersHandler: getUnassignedClustersHandler,
	}
}

// RegisterRoutes mounts all dispatch routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/deliveries", s.CreateDelivery)
	v1.GET("/deliveries/:id", s.GetDelivery)
	v1.POST("/deliveries/:id/cancel", s.CancelDelivery)
	v1.POST("/deliveries/:id/pickup", s.MarkPickedUp)
	v1.POST("/deliveries/:id/complete", s.CompleteDelivery)
	v1.GET("/clusters/unassigned", s.GetUnassignedClusters)
	v1.POST("/clusters/bulk-assign", s.BulkAssignCourier)
	v1.POST("/clusters/:id/accept", s.AcceptOffer)
	v1.POST("/clusters/:id/decline", s.DeclineOffer)
	v1.PUT("/clusters/:id/tracking", s.UpdateTracking)
}

// Error is the JSON error payload.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Point is a coordinate pair in request and response bodies.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ClusterSpecRequest describes one requested leg of a new delivery.
type ClusterSpecRequest struct {
	SourceLocationID *string  `json:"source_location_id,omitempty"`
	Source           *Point   `json:"source,omitempty"`
	Dropoff          *Point   `json:"dropoff,omitempty"`
	Price            *float64 `json:"price,omitempty"`
}

// CreateDeliveryRequest is the body of POST /api/v1/deliveries.
type CreateDeliveryRequest struct {
	OrderID    string               `json:"order_id"`
	CustomerID string               `json:"customer_id"`
	Dropoff    Point                `json:"dropoff"`
	Clusters   []ClusterSpecRequest `json:"clusters,omitempty"`
}

// CreateDeliveryResponse returns the identifier of the created delivery.
type CreateDeliveryResponse struct {
	DeliveryID string `json:"delivery_id"`
}

// CourierRequest carries the acting courier for offer and lifecycle routes.
type CourierRequest struct {
	CourierID string `json:"courier_id"`
}

// BulkAssignRequest is the body of POST /api/v1/clusters/bulk-assign.
type BulkAssignRequest struct {
	ClusterIDs []string `json:"cluster_ids"`
	CourierID  string   `json:"courier_id"`
}

// UpdateTrackingRequest is the body of PUT /api/v1/clusters/:id/tracking.
// Coordinates are optional; omitting them keeps the last known position.
type UpdateTrackingRequest struct {
	Location *Point `json:"location,omitempty"`
}

// TrackingResponse is the tracking sub-record of one leg.
type TrackingResponse struct {
	Location    *Point    `json:"location,omitempty"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

// ClusterResponse is one leg of a delivery.
type ClusterResponse struct {
	ID               string            `json:"id"`
	SourceLocationID *string           `json:"source_location_id,omitempty"`
	Source           *Point            `json:"source,omitempty"`
	Dropoff          Point             `json:"dropoff"`
	DistanceKm       float64           `json:"distance_km"`
	Price            float64           `json:"price"`
	Status           string            `json:"status"`
	CourierID        *string           `json:"courier_id,omitempty"`
	Sequence         int               `json:"sequence"`
	Tracking         *TrackingResponse `json:"tracking,omitempty"`
}

// DeliveryResponse is the body of GET /api/v1/deliveries/:id.
type DeliveryResponse struct {
	ID           string            `json:"id"`
	OrderID      string            `json:"order_id"`
	CustomerID   string            `json:"customer_id"`
	TrackingCode string            `json:"tracking_code"`
	Status       string            `json:"status"`
	Dropoff      Point             `json:"dropoff"`
	CourierID    *string           `json:"courier_id,omitempty"`
	RetryCount   int               `json:"retry_count"`
	CreatedAt    time.Time         `json:"created_at"`
	Clusters     []ClusterResponse `json:"clusters"`
}

// UnassignedClusterResponse is one row of GET /api/v1/clusters/unassigned.
type UnassignedClusterResponse struct {
	ID               string    `json:"id"`
	DeliveryID       string    `json:"delivery_id"`
	SourceLocationID *string   `json:"source_location_id,omitempty"`
	Source           *Point    `json:"source,omitempty"`
	Dropoff          Point     `json:"dropoff"`
	DistanceKm       float64   `json:"distance_km"`
	Price            float64   `json:"price"`
	Sequence         int       `json:"sequence"`
	CreatedAt        time.Time `json:"created_at"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateDelivery handles POST /api/v1/deliveries - opens dispatch for an
// order.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var req CreateDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order_id: "+err.Error())
	}
	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer_id: "+err.Error())
	}
	dropoff, err := kernel.NewGeoPoint(req.Dropoff.Lat, req.Dropoff.Lon)
	if err != nil {
		return badRequest(ctx, "Invalid dropoff: "+err.Error())
	}

	specs, err := toClusterSpecs(req.Clusters)
	if err != nil {
		return badRequest(ctx, "Invalid clusters: "+err.Error())
	}

	deliveryID := kernel.NewUUID()
	cmd, err := commands.NewCreateDeliveryCommand(deliveryID, orderID, customerID, dropoff, specs)
	if err != nil {
		return badRequest(ctx, "Invalid delivery data: "+err.Error())
	}

	if handleErr := s.createDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreateDeliveryResponse{DeliveryID: deliveryID.String()})
}

// GetDelivery handles GET /api/v1/deliveries/:id.
func (s *Server) GetDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	query, err := queries.NewGetDeliveryQuery(deliveryID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	resp, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return commandError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toDeliveryResponse(resp))
}

// CancelDelivery handles POST /api/v1/deliveries/:id/cancel.
func (s *Server) CancelDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	cmd, err := commands.NewCancelDeliveryCommand(deliveryID)
	if err != nil {
		return badRequest(ctx, "Invalid cancel data: "+err.Error())
	}

	if handleErr := s.cancelDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkPickedUp handles POST /api/v1/deliveries/:id/pickup.
func (s *Server) MarkPickedUp(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	courierID, err := bindCourier(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewMarkPickedUpCommand(deliveryID, courierID)
	if err != nil {
		return badRequest(ctx, "Invalid pickup data: "+err.Error())
	}

	if handleErr := s.markPickedUpHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteDelivery handles POST /api/v1/deliveries/:id/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	courierID, err := bindCourier(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewCompleteDeliveryCommand(deliveryID, courierID)
	if err != nil {
		return badRequest(ctx, "Invalid completion data: "+err.Error())
	}

	if handleErr := s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AcceptOffer handles POST /api/v1/clusters/:id/accept.
func (s *Server) AcceptOffer(ctx echo.Context) error {
	clusterID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid cluster id: "+err.Error())
	}

	courierID, err := bindCourier(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewAcceptOfferCommand(clusterID, courierID)
	if err != nil {
		return badRequest(ctx, "Invalid accept data: "+err.Error())
	}

	if handleErr := s.acceptOfferHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeclineOffer handles POST /api/v1/clusters/:id/decline.
func (s *Server) DeclineOffer(ctx echo.Context) error {
	clusterID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid cluster id: "+err.Error())
	}

	courierID, err := bindCourier(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewDeclineOfferCommand(clusterID, courierID)
	if err != nil {
		return badRequest(ctx, "Invalid decline data: "+err.Error())
	}

	if handleErr := s.declineOfferHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// BulkAssignCourier handles POST /api/v1/clusters/bulk-assign - an operator
// override that places one courier on several legs at once.
func (s *Server) BulkAssignCourier(ctx echo.Context) error {
	var req BulkAssignRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier_id: "+err.Error())
	}

	clusterIDs := make([]kernel.UUID, 0, len(req.ClusterIDs))
	for _, raw := range req.ClusterIDs {
		id, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return badRequest(ctx, "Invalid cluster id: "+idErr.Error())
		}
		clusterIDs = append(clusterIDs, id)
	}

	cmd, err := commands.NewBulkAssignCourierCommand(clusterIDs, courierID)
	if err != nil {
		return badRequest(ctx, "Invalid bulk assign data: "+err.Error())
	}

	if handleErr := s.bulkAssignHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateTracking handles PUT /api/v1/clusters/:id/tracking.
func (s *Server) UpdateTracking(ctx echo.Context) error {
	clusterID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid cluster id: "+err.Error())
	}

	var req UpdateTrackingRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var location *kernel.GeoPoint
	if req.Location != nil {
		p, pErr := kernel.NewGeoPoint(req.Location.Lat, req.Location.Lon)
		if pErr != nil {
			return badRequest(ctx, "Invalid location: "+pErr.Error())
		}
		location = &p
	}

	cmd, err := commands.NewUpdateTrackingCommand(clusterID, location)
	if err != nil {
		return badRequest(ctx, "Invalid tracking data: "+err.Error())
	}

	if handleErr := s.updateTrackingHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetUnassignedClusters handles GET /api/v1/clusters/unassigned.
func (s *Server) GetUnassignedClusters(ctx echo.Context) error {
	query := queries.NewGetUnassignedClustersQuery()

	backlog, err := s.getUnassignedClustersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return commandError(ctx, err)
	}

	response := make([]UnassignedClusterResponse, len(backlog))
	for i, item := range backlog {
		response[i] = UnassignedClusterResponse{
			ID:               item.ID.String(),
			DeliveryID:       item.DeliveryID.String(),
			SourceLocationID: optionalID(item.SourceLocationID),
			Source:           optionalPointResponse(item.Source),
			Dropoff:          Point{Lat: item.Dropoff.Lat(), Lon: item.Dropoff.Lon()},
			DistanceKm:       item.DistanceKm,
			Price:            item.Price,
			Sequence:         item.Sequence,
			CreatedAt:        item.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func bindCourier(ctx echo.Context) (kernel.UUID, error) {
	var req CourierRequest
	if err := ctx.Bind(&req); err != nil {
		return kernel.UUID{}, errors.New("Invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return kernel.UUID{}, errors.New("Invalid courier_id: " + err.Error())
	}

	return courierID, nil
}

func toClusterSpecs(reqs []ClusterSpecRequest) ([]commands.ClusterSpec, error) {
	specs := make([]commands.ClusterSpec, 0, len(reqs))
	for _, req := range reqs {
		var spec commands.ClusterSpec

		if req.SourceLocationID != nil {
			id, err := kernel.UUIDFromString(*req.SourceLocationID)
			if err != nil {
				return nil, err
			}
			spec.SourceLocationID = &id
		}
		if req.Source != nil {
			p, err := kernel.NewGeoPoint(req.Source.Lat, req.Source.Lon)
			if err != nil {
				return nil, err
			}
			spec.Source = &p
		}
		if req.Dropoff != nil {
			p, err := kernel.NewGeoPoint(req.Dropoff.Lat, req.Dropoff.Lon)
			if err != nil {
				return nil, err
			}
			spec.Dropoff = &p
		}
		spec.Price = req.Price

		specs = append(specs, spec)
	}

	return specs, nil
}

func toDeliveryResponse(resp queries.GetDeliveryQueryResponse) DeliveryResponse {
	out := DeliveryResponse{
		ID:           resp.ID.String(),
		OrderID:      resp.OrderID.String(),
		CustomerID:   resp.CustomerID.String(),
		TrackingCode: resp.TrackingCode,
		Status:       resp.Status,
		Dropoff:      Point{Lat: resp.Dropoff.Lat(), Lon: resp.Dropoff.Lon()},
		CourierID:    optionalID(resp.CourierID),
		RetryCount:   resp.RetryCount,
		CreatedAt:    resp.CreatedAt,
		Clusters:     make([]ClusterResponse, len(resp.Clusters)),
	}

	for i, c := range resp.Clusters {
		leg := ClusterResponse{
			ID:               c.ID.String(),
			SourceLocationID: optionalID(c.SourceLocationID),
			Source:           optionalPointResponse(c.Source),
			Dropoff:          Point{Lat: c.Dropoff.Lat(), Lon: c.Dropoff.Lon()},
			DistanceKm:       c.DistanceKm,
			Price:            c.Price,
			Status:           c.Status,
			CourierID:        optionalID(c.CourierID),
			Sequence:         c.Sequence,
		}
		if c.Tracking != nil {
			leg.Tracking = &TrackingResponse{
				Location:    optionalPointResponse(c.Tracking.Location),
				Status:      c.Tracking.Status,
				LastUpdated: c.Tracking.LastUpdated,
			}
		}
		out.Clusters[i] = leg
	}

	return out
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optionalPointResponse(p *kernel.GeoPoint) *Point {
	if p == nil {
		return nil
	}
	return &Point{Lat: p.Lat(), Lon: p.Lon()}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// commandError maps domain failures onto HTTP statuses: missing objects to
// 404, invalid input to 400, business-rule violations to 409, anything else
// to 500.
func commandError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrBusinessRule):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
