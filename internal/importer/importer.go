package importer

import (
	"context"
	"fmt"

	"landmap/internal/arcgis"
	"landmap/internal/config"
	"landmap/internal/logger"
	"landmap/internal/models"
)

// ParcelStore is the slice of the storage layer the importer writes
// through.
type ParcelStore interface {
	UpsertParcel(ctx context.Context, parcel *models.Parcel) error
	UpsertZoningRegulation(ctx context.Context, zoneCode, zoneDescription string) error
}

// Field selections requested from each layer. The record caps and the
// single-page fetch mean a run is a refresh, not a guaranteed complete
// pull.
const (
	parcelOutFields = "PID,Owner_FirstName,Owner_LastName,Total_Acreage,Mailing_Address,Zip_Code"
	vacantOutFields = "PID,ADDRESS,ACRES,ZONING"
	zoningOutFields = "ZoneDes,ZoneDesc"
)

// Importer pulls parcel, vacant-land and zoning features from the
// configured GIS layers and loads them into the store. Runs are
// strictly sequential; a failed layer fetch skips that layer, and a
// failed feature skips that feature.
type Importer struct {
	client *arcgis.Client
	store  ParcelStore
	cfg    config.GISConfig
	log    *logger.Logger
}

// New creates an Importer using the GIS configuration for layer URLs,
// timeout and record cap.
func New(store ParcelStore, cfg config.GISConfig, log *logger.Logger) *Importer {
	return &Importer{
		client: arcgis.NewClient(cfg.Timeout, cfg.MaxRecords),
		store:  store,
		cfg:    cfg,
		log:    log,
	}
}

// ImportAll runs the three layer passes in sequence: parcel ownership,
// vacant land, zoning. Fetch and per-feature failures are logged and
// skipped. The returned error is non-nil only when the context is
// cancelled mid-run.
func (im *Importer) ImportAll(ctx context.Context) error {
	im.log.Info("Starting data import", map[string]interface{}{
		"max_records": im.cfg.MaxRecords,
	})

	im.importParcelLayer(ctx)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("import cancelled: %w", err)
	}

	im.importVacantLayer(ctx)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("import cancelled: %w", err)
	}

	im.importZoningLayer(ctx)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("import cancelled: %w", err)
	}

	im.log.Info("Data import completed", nil)
	return nil
}

// importParcelLayer loads the parcel ownership layer.
func (im *Importer) importParcelLayer(ctx context.Context) {
	fc, err := im.client.QueryLayer(ctx, im.cfg.ParcelURL, parcelOutFields)
	if err != nil {
		im.log.Error("Parcel layer fetch failed, skipping layer", err, map[string]interface{}{
			"url": im.cfg.ParcelURL,
		})
		return
	}

	stored := im.storeParcelFeatures(ctx, fc.Features, false)
	im.log.Info("Parcel layer imported", map[string]interface{}{
		"fetched": len(fc.Features),
		"stored":  stored,
	})
}

// importVacantLayer loads the vacant land layer. Every stored row has
// its owner name forced to empty, marking it vacant regardless of what
// the source reported.
func (im *Importer) importVacantLayer(ctx context.Context) {
	fc, err := im.client.QueryLayer(ctx, im.cfg.VacantURL, vacantOutFields)
	if err != nil {
		im.log.Error("Vacant land layer fetch failed, skipping layer", err, map[string]interface{}{
			"url": im.cfg.VacantURL,
		})
		return
	}

	stored := im.storeParcelFeatures(ctx, fc.Features, true)
	im.log.Info("Vacant land layer imported", map[string]interface{}{
		"fetched": len(fc.Features),
		"stored":  stored,
	})
}

// storeParcelFeatures normalizes and upserts each feature, counting
// successes. markVacant overrides the owner name after normalization.
func (im *Importer) storeParcelFeatures(ctx context.Context, features []arcgis.Feature, markVacant bool) int {
	stored := 0
	for _, feature := range features {
		parcel, err := NormalizeFeature(feature)
		if err != nil {
			im.log.Debug("Skipping feature", map[string]interface{}{
				"reason": err.Error(),
			})
			continue
		}

		if markVacant {
			empty := ""
			parcel.OwnerName = &empty
		}

		if err := im.store.UpsertParcel(ctx, parcel); err != nil {
			im.log.Error("Failed to store parcel, skipping", err, map[string]interface{}{
				"parcel_id": parcel.ParcelID,
			})
			continue
		}
		stored++
	}
	return stored
}

// importZoningLayer loads the zoning layer. Zoning features follow a
// simpler path than parcels: each yields a (code, description) pair
// upserted directly, with no normalizer or geometry involvement.
func (im *Importer) importZoningLayer(ctx context.Context) {
	fc, err := im.client.QueryLayer(ctx, im.cfg.ZoningURL, zoningOutFields)
	if err != nil {
		im.log.Error("Zoning layer fetch failed, skipping layer", err, map[string]interface{}{
			"url": im.cfg.ZoningURL,
		})
		return
	}

	stored := 0
	for _, feature := range fc.Features {
		zoneCode := stringValue(feature.Properties["ZoneDes"])
		if zoneCode == "" {
			continue
		}
		zoneDescription := stringValue(feature.Properties["ZoneDesc"])

		if err := im.store.UpsertZoningRegulation(ctx, zoneCode, zoneDescription); err != nil {
			im.log.Error("Failed to store zoning regulation, skipping", err, map[string]interface{}{
				"zone_code": zoneCode,
			})
			continue
		}
		stored++
	}

	im.log.Info("Zoning layer imported", map[string]interface{}{
		"fetched": len(fc.Features),
		"stored":  stored,
	})
}
