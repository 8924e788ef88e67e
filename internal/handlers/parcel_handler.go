package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "landmap/internal/errors"
	"landmap/internal/middleware"
	"landmap/internal/models"
	"landmap/internal/repository"
	"landmap/internal/services"
)

// ParcelHandler handles parcel-related HTTP requests.
type ParcelHandler struct {
	service services.ParcelService
}

// NewParcelHandler creates a new ParcelHandler instance.
func NewParcelHandler(service services.ParcelService) *ParcelHandler {
	return &ParcelHandler{
		service: service,
	}
}

// SearchRequest is the JSON body for the parcel search endpoint. All
// fields are optional; zero values mean "not specified". A slope range
// with fewer than two elements is accepted and simply ignored.
type SearchRequest struct {
	MinAcres     float64   `json:"min_acres" binding:"omitempty,gte=0"`
	MaxAcres     float64   `json:"max_acres" binding:"omitempty,gte=0"`
	ZoningType   string    `json:"zoning_type"`
	VacantOnly   bool      `json:"vacant_only"`
	RoadFrontage int       `json:"road_frontage" binding:"omitempty,gte=0"`
	SlopeRange   []float64 `json:"slope_range" binding:"omitempty,max=2"`
}

// SearchResponse is the body returned by the search endpoint.
type SearchResponse struct {
	Parcels        []models.Parcel `json:"parcels"`
	TotalCount     int             `json:"total_count"`
	SearchCriteria SearchRequest   `json:"search_criteria"`
}

// OwnerSearchRequest is the JSON body for the owner lookup endpoint.
type OwnerSearchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Search handles POST /api/v1/parcels/search.
func (h *ParcelHandler) Search(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log != nil {
		log.Info("Processing parcel search", map[string]interface{}{
			"min_acres":   req.MinAcres,
			"max_acres":   req.MaxAcres,
			"zoning_type": req.ZoningType,
			"vacant_only": req.VacantOnly,
		})
	}

	criteria := repository.SearchCriteria{
		MinAcres:     req.MinAcres,
		MaxAcres:     req.MaxAcres,
		ZoningType:   req.ZoningType,
		VacantOnly:   req.VacantOnly,
		RoadFrontage: req.RoadFrontage,
		SlopeRange:   req.SlopeRange,
	}

	parcels, err := h.service.SearchParcels(c.Request.Context(), criteria)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCriteria) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to search parcels", err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Parcels:        parcels,
		TotalCount:     len(parcels),
		SearchCriteria: req,
	})
}

// Details handles GET /api/v1/parcels/:parcel_id/details.
func (h *ParcelHandler) Details(c *gin.Context) {
	parcelID := c.Param("parcel_id")
	if parcelID == "" {
		apierrors.BadRequest(c, "parcel_id is required", nil)
		return
	}

	details, err := h.service.GetParcelDetails(c.Request.Context(), parcelID)
	if err != nil {
		if errors.Is(err, services.ErrParcelNotFound) {
			apierrors.NotFound(c, "No parcel found with this identifier")
			return
		}
		apierrors.InternalServerError(c, "Failed to query parcel details", err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// OwnerSearch handles POST /api/v1/owner/search.
func (h *ParcelHandler) OwnerSearch(c *gin.Context) {
	var req OwnerSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	contact, err := h.service.LookupOwner(c.Request.Context(), req.Name, req.Address)
	if err != nil {
		if errors.Is(err, services.ErrMissingOwnerQuery) {
			apierrors.BadRequest(c, "Address or name required", nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to look up owner", err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// ZoningRegulations handles GET /api/v1/zoning/regulations.
// Returns all regulations keyed by zone code.
func (h *ParcelHandler) ZoningRegulations(c *gin.Context) {
	regulations, err := h.service.ListZoningRegulations(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list zoning regulations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"regulations": regulations})
}
