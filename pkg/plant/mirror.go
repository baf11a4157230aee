package plant

import (
	"fmt"
	"log/slog"
	"time"
)

// Mirror synchronization for SPLITTER and FDH shadow asset records.
// Infrastructure rows and their mirror assets are kept as two tables for
// compatibility with the inventory views; every piece of code that
// creates, reserves, or resolves a mirror lives in this file so the two
// representations cannot drift anywhere else.

// newMirrorAsset builds the shadow asset for an infrastructure row. The
// serial number is the row's name, which the intake paths require to be
// unique across the inventory.
func newMirrorAsset(assetType AssetType, relatedID int64, name, model, location string) *Asset {
	return &Asset{
		AssetType:       assetType,
		SerialNumber:    name,
		Model:           model,
		Location:        location,
		Status:          AssetAvailable,
		RelatedEntityID: &relatedID,
	}
}

// reserveMirror transitions an infrastructure row's mirror asset to
// ASSIGNED on behalf of a customer, if the mirror exists and is still
// AVAILABLE. The first customer routed through a splitter or FDH
// activates it; later customers leave it untouched. A missing mirror is
// logged and tolerated.
func reserveMirror(tx *Store, assetType AssetType, relatedID, customerID int64, logger *slog.Logger) error {
	mirror, err := tx.MirrorAssetForUpdate(assetType, relatedID)
	if err != nil {
		return err
	}
	if mirror == nil {
		logger.Warn("no mirror asset record for infrastructure row",
			"assetType", assetType,
			"relatedEntityId", relatedID)
		return nil
	}
	if mirror.Status != AssetAvailable {
		return nil
	}
	now := time.Now()
	mirror.Status = AssetAssigned
	mirror.AssignedToCustomerID = &customerID
	mirror.AssignedDate = &now
	if err := tx.Save(mirror); err != nil {
		return fmt.Errorf("reserve %s mirror asset: %w", assetType, err)
	}
	return nil
}
