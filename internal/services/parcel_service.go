package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"landmap/internal/logger"
	"landmap/internal/models"
	"landmap/internal/repository"
)

// Service-level errors
var (
	ErrParcelNotFound    = errors.New("parcel not found")
	ErrInvalidCriteria   = errors.New("invalid search criteria")
	ErrMissingOwnerQuery = errors.New("address or name required")
)

// ParcelDetails is the full detail view for one parcel: the stored
// record plus the zoning regulation for its code, when one exists.
type ParcelDetails struct {
	Parcel models.Parcel            `json:"parcel"`
	Zoning *models.ZoningRegulation `json:"zoning_regulation,omitempty"`
}

// ParcelService defines the business logic for parcel search, detail
// lookup, owner lookup and zoning listings.
type ParcelService interface {
	// SearchParcels returns parcels matching the criteria, ordered by
	// acreage descending, capped by the repository.
	// Returns ErrInvalidCriteria when min/max acreage conflict.
	SearchParcels(ctx context.Context, criteria repository.SearchCriteria) ([]models.Parcel, error)

	// GetParcelDetails retrieves one parcel plus its zoning regulation.
	// Returns ErrParcelNotFound when the id is unknown.
	GetParcelDetails(ctx context.Context, parcelID string) (*ParcelDetails, error)

	// LookupOwner finds contact details for an owner by name or
	// address. Returns ErrMissingOwnerQuery when both are empty.
	LookupOwner(ctx context.Context, name, address string) (*models.OwnerContact, error)

	// ListZoningRegulations returns all regulations keyed by zone code.
	ListZoningRegulations(ctx context.Context) (map[string]models.ZoningRegulation, error)
}

// parcelService is the concrete implementation of ParcelService.
type parcelService struct {
	repo repository.ParcelRepository
	log  *logger.Logger
}

// NewParcelService creates a new instance of ParcelService.
func NewParcelService(repo repository.ParcelRepository, log *logger.Logger) ParcelService {
	return &parcelService{
		repo: repo,
		log:  log,
	}
}

// SearchParcels validates the criteria and queries the repository.
func (s *parcelService) SearchParcels(ctx context.Context, criteria repository.SearchCriteria) ([]models.Parcel, error) {
	// Zero means unspecified, so only reject when both bounds are set.
	if criteria.MinAcres != 0 && criteria.MaxAcres != 0 && criteria.MinAcres > criteria.MaxAcres {
		return nil, fmt.Errorf("%w: min_acres %.4f exceeds max_acres %.4f",
			ErrInvalidCriteria, criteria.MinAcres, criteria.MaxAcres)
	}

	s.log.Info("Searching parcels", map[string]interface{}{
		"min_acres":   criteria.MinAcres,
		"max_acres":   criteria.MaxAcres,
		"zoning_type": criteria.ZoningType,
		"vacant_only": criteria.VacantOnly,
	})

	parcels, err := s.repo.SearchParcels(ctx, criteria)
	if err != nil {
		s.log.Error("Failed to search parcels", err, nil)
		return nil, fmt.Errorf("failed to search parcels: %w", err)
	}

	s.log.Info("Parcel search completed", map[string]interface{}{
		"count": len(parcels),
	})

	return parcels, nil
}

// GetParcelDetails reads the parcel and, when it carries a zoning
// code, the matching regulation. A missing regulation is not an error;
// the detail simply omits it.
func (s *parcelService) GetParcelDetails(ctx context.Context, parcelID string) (*ParcelDetails, error) {
	parcel, err := s.repo.GetParcelByID(ctx, parcelID)
	if err != nil {
		s.log.Error("Failed to query parcel", err, map[string]interface{}{
			"parcel_id": parcelID,
		})
		return nil, fmt.Errorf("failed to query parcel: %w", err)
	}

	if parcel == nil {
		s.log.Debug("Parcel not found", map[string]interface{}{
			"parcel_id": parcelID,
		})
		return nil, ErrParcelNotFound
	}

	details := &ParcelDetails{Parcel: *parcel}

	if parcel.ZoningCode != nil && *parcel.ZoningCode != "" {
		zoning, err := s.repo.GetZoningRegulation(ctx, *parcel.ZoningCode)
		if err != nil {
			s.log.Error("Failed to query zoning regulation", err, map[string]interface{}{
				"parcel_id": parcelID,
				"zone_code": *parcel.ZoningCode,
			})
			return nil, fmt.Errorf("failed to query zoning regulation: %w", err)
		}
		details.Zoning = zoning
	}

	return details, nil
}

// LookupOwner returns owner contact details for a name or address.
// TODO: integrate a real people-search provider; until then this
// returns fixed data tagged source "Mock Data" so callers can tell.
// Each successful lookup is recorded in owner_contacts; a recording
// failure is logged but does not fail the lookup.
func (s *parcelService) LookupOwner(ctx context.Context, name, address string) (*models.OwnerContact, error) {
	if name == "" && address == "" {
		return nil, ErrMissingOwnerQuery
	}

	s.log.Info("Looking up owner contact", map[string]interface{}{
		"name":    name,
		"address": address,
	})

	contactAddress := address
	if contactAddress == "" {
		contactAddress = "123 Main St, Charlotte, NC"
	}

	now := time.Now()
	contact := &models.OwnerContact{
		Name:         "John Doe",
		Phone:        "555-123-4567",
		Email:        "john.doe@example.com",
		Address:      contactAddress,
		Source:       "Mock Data",
		LastVerified: &now,
	}

	if err := s.repo.InsertOwnerContact(ctx, contact); err != nil {
		s.log.Error("Failed to record owner contact", err, map[string]interface{}{
			"address": contactAddress,
		})
	}

	return contact, nil
}

// ListZoningRegulations returns all stored regulations as a map keyed
// by zone code.
func (s *parcelService) ListZoningRegulations(ctx context.Context) (map[string]models.ZoningRegulation, error) {
	regulations, err := s.repo.ListZoningRegulations(ctx)
	if err != nil {
		s.log.Error("Failed to list zoning regulations", err, nil)
		return nil, fmt.Errorf("failed to list zoning regulations: %w", err)
	}

	result := make(map[string]models.ZoningRegulation, len(regulations))
	for _, reg := range regulations {
		result[reg.ZoneCode] = reg
	}

	return result, nil
}
