package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/silentzone/module/core/domain"
)

type zoneService interface {
	SetZone(ctx context.Context, lat, lon float64, name string) (domain.ZoneRecord, error)
	SetZoneFromCurrentLocation(ctx context.Context) (domain.ZoneRecord, error)
	ClearZone(ctx context.Context) error
	GetZone(ctx context.Context) domain.Zone
	GetAllZones(ctx context.Context) ([]domain.ZoneRecord, error)
}

type statusService interface {
	Current(ctx context.Context) domain.Status
}

type placeService interface {
	Search(ctx context.Context, query string) (*domain.Coordinate, error)
}

type ringerService interface {
	Toggle(ctx context.Context) (domain.RingerMode, error)
}

type setZoneRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Name      string   `json:"name"`
}

type zoneResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Set       bool    `json:"set"`
}

type zoneRecordResponse struct {
	ID        int64   `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	CreatedAt int64   `json:"created_at"`
}

type ZoneHandler struct {
	zoneSvc   zoneService
	statusSvc statusService
	placeSvc  placeService
	ringerSvc ringerService
}

func NewZoneHandler(zoneSvc zoneService, statusSvc statusService, placeSvc placeService, ringerSvc ringerService) *ZoneHandler {
	return &ZoneHandler{zoneSvc: zoneSvc, statusSvc: statusSvc, placeSvc: placeSvc, ringerSvc: ringerSvc}
}

func (h *ZoneHandler) Register(r *gin.RouterGroup) {
	r.GET("/zone", h.GetZone)
	r.PUT("/zone", h.SetZone)
	r.POST("/zone/current", h.SetZoneFromCurrentLocation)
	r.DELETE("/zone", h.ClearZone)
	r.GET("/zones", h.GetAllZones)
	r.GET("/status", h.GetStatus)
	r.GET("/geocode", h.Geocode)
	r.POST("/ringer/toggle", h.ToggleRinger)
}

func (h *ZoneHandler) GetZone(c *gin.Context) {
	c.JSON(http.StatusOK, toZoneResponse(h.zoneSvc.GetZone(c.Request.Context())))
}

// SetZone stores a map-picked point. Coordinates are not range checked.
func (h *ZoneHandler) SetZone(c *gin.Context) {
	var req setZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}
	if *req.Latitude == 0 && *req.Longitude == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "(0, 0) is reserved for an unset zone"})
		return
	}

	name := req.Name
	if name == "" {
		name = domain.ZoneNameMapSelected
	}

	rec, err := h.zoneSvc.SetZone(c.Request.Context(), *req.Latitude, *req.Longitude, name)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to save zone"})
		return
	}
	c.JSON(http.StatusOK, toZoneRecordResponse(rec))
}

func (h *ZoneHandler) SetZoneFromCurrentLocation(c *gin.Context) {
	rec, err := h.zoneSvc.SetZoneFromCurrentLocation(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrLocationUnavailable) {
			c.JSON(http.StatusConflict, gin.H{"error": "could not get current location"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to save zone"})
		return
	}
	c.JSON(http.StatusOK, toZoneRecordResponse(rec))
}

func (h *ZoneHandler) ClearZone(c *gin.Context) {
	if err := h.zoneSvc.ClearZone(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to clear zone"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ZoneHandler) GetAllZones(c *gin.Context) {
	records, err := h.zoneSvc.GetAllZones(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch zones"})
		return
	}

	results := make([]zoneRecordResponse, len(records))
	for i, rec := range records {
		results[i] = toZoneRecordResponse(rec)
	}
	c.JSON(http.StatusOK, results)
}

func (h *ZoneHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.statusSvc.Current(c.Request.Context()))
}

func (h *ZoneHandler) Geocode(c *gin.Context) {
	coord, err := h.placeSvc.Search(c.Request.Context(), c.Query("q"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, coord)
	case errors.Is(err, domain.ErrPlaceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
	case errors.Is(err, domain.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q parameter"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "geocoding failed"})
	}
}

// ToggleRinger flips the ringer by hand. The geofence state is untouched, so
// the next boundary crossing still sends its command.
func (h *ZoneHandler) ToggleRinger(c *gin.Context) {
	mode, err := h.ringerSvc.Toggle(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"mode": mode})
	case errors.Is(err, domain.ErrActuatorDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "do not disturb access not granted"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to change ringer mode"})
	}
}

func toZoneResponse(z domain.Zone) zoneResponse {
	return zoneResponse{
		Latitude:  z.Lat,
		Longitude: z.Lon,
		Name:      z.Name,
		Set:       z.IsSet(),
	}
}

func toZoneRecordResponse(rec domain.ZoneRecord) zoneRecordResponse {
	return zoneRecordResponse{
		ID:        rec.ID,
		Latitude:  rec.Lat,
		Longitude: rec.Lon,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt.Unix(),
	}
}
