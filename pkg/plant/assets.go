package plant

import (
	"log/slog"
	"strings"
)

// AssetManager creates and deletes hardware asset records and enforces
// delete-safety for mirrored infrastructure.
type AssetManager struct {
	store    *Store
	recorder Recorder
	logger   *slog.Logger
}

// NewAssetManager creates a new AssetManager.
func NewAssetManager(store *Store, recorder Recorder, logger *slog.Logger) *AssetManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetManager{store: store, recorder: recorder, logger: logger}
}

// CreateAssetRequest carries the fields for an asset intake.
type CreateAssetRequest struct {
	AssetType    AssetType   `json:"assetType"`
	SerialNumber string      `json:"serialNumber"`
	Model        string      `json:"model"`
	Location     string      `json:"location"`
	Status       AssetStatus `json:"status,omitempty"`
	OperatorID   *int64      `json:"operatorId,omitempty"`
}

// Create registers a new asset. Serial numbers are unique across the
// inventory; new assets default to AVAILABLE.
func (m *AssetManager) Create(req CreateAssetRequest) (*Asset, error) {
	if strings.TrimSpace(req.SerialNumber) == "" {
		return nil, invalidInput("serial number is required")
	}
	switch req.AssetType {
	case AssetONT, AssetRouter, AssetSplitter, AssetFDH:
	default:
		return nil, invalidInput("unknown asset type: %q", req.AssetType)
	}

	existing, err := m.store.AssetBySerial(req.SerialNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalidInput("asset with serial number %q already exists", req.SerialNumber)
	}

	status := req.Status
	if status == "" {
		status = AssetAvailable
	}
	asset := &Asset{
		AssetType:    req.AssetType,
		SerialNumber: req.SerialNumber,
		Model:        req.Model,
		Location:     req.Location,
		Status:       status,
	}
	if err := m.store.Create(asset); err != nil {
		return nil, err
	}

	m.recorder.Record(ActionAssetCreate,
		"Registered asset "+asset.SerialNumber+" ("+string(asset.AssetType)+")",
		req.OperatorID)
	return asset, nil
}

// Delete removes an asset from the inventory. Assigned hardware cannot
// be deleted. For SPLITTER and FDH mirror assets the mirrored
// infrastructure row is deleted too, but only when it has no dependents;
// a dangling mirror reference is logged and the asset deleted anyway.
func (m *AssetManager) Delete(assetID int64, operatorID *int64) error {
	var serial string
	err := m.store.Transaction(func(tx *Store) error {
		asset, err := tx.AssetByID(assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return notFound("asset", assetID)
		}
		if asset.Status != AssetAvailable {
			return invalidState("asset %d (%s) cannot be deleted in status %s",
				asset.ID, asset.SerialNumber, asset.Status)
		}
		serial = asset.SerialNumber

		switch asset.AssetType {
		case AssetSplitter:
			if err := m.deleteSplitterMirror(tx, asset); err != nil {
				return err
			}
		case AssetFDH:
			if err := m.deleteFdhMirror(tx, asset); err != nil {
				return err
			}
		}

		return tx.Delete(asset)
	})
	if err != nil {
		return err
	}

	m.recorder.Record(ActionAssetDelete, "Deleted asset "+serial, operatorID)
	return nil
}

func (m *AssetManager) deleteSplitterMirror(tx *Store, asset *Asset) error {
	if asset.RelatedEntityID == nil {
		m.logger.Warn("splitter asset has no related entity", "assetId", asset.ID)
		return nil
	}
	splitter, err := tx.SplitterByID(*asset.RelatedEntityID)
	if err != nil {
		return err
	}
	if splitter == nil {
		m.logger.Warn("splitter row missing for mirror asset",
			"assetId", asset.ID,
			"splitterId", *asset.RelatedEntityID)
		return nil
	}
	dependents, err := tx.CountCustomersBySplitter(splitter.ID)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return conflict("splitter %d has %d connected customers and cannot be deleted",
			splitter.ID, dependents)
	}
	return tx.Delete(splitter)
}

func (m *AssetManager) deleteFdhMirror(tx *Store, asset *Asset) error {
	if asset.RelatedEntityID == nil {
		m.logger.Warn("fdh asset has no related entity", "assetId", asset.ID)
		return nil
	}
	fdh, err := tx.FdhByID(*asset.RelatedEntityID)
	if err != nil {
		return err
	}
	if fdh == nil {
		m.logger.Warn("fdh row missing for mirror asset",
			"assetId", asset.ID,
			"fdhId", *asset.RelatedEntityID)
		return nil
	}
	dependents, err := tx.CountSplittersByFdh(fdh.ID)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return conflict("fdh %d has %d splitters and cannot be deleted",
			fdh.ID, dependents)
	}
	return tx.Delete(fdh)
}

// Get returns an asset by id.
func (m *AssetManager) Get(id int64) (*Asset, error) {
	asset, err := m.store.AssetByID(id)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, notFound("asset", id)
	}
	return asset, nil
}

// Find returns assets filtered by type and status. Empty values mean no
// filter on that dimension.
func (m *AssetManager) Find(assetType AssetType, status AssetStatus) ([]Asset, error) {
	return m.store.Assets(assetType, status)
}

// AvailableByType returns AVAILABLE assets of the given type, which is
// what the field technician picks ONT and router hardware from.
func (m *AssetManager) AvailableByType(assetType AssetType) ([]Asset, error) {
	return m.store.Assets(assetType, AssetAvailable)
}

// FindSwappableBySerial locates an installed ONT or router by serial
// number for the device-swap search surface. Only ASSIGNED swappable
// hardware qualifies.
func (m *AssetManager) FindSwappableBySerial(serial string) (*Asset, error) {
	asset, err := m.store.AssetBySerial(serial)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, &NotFoundError{Entity: "asset with serial " + serial}
	}
	if asset.AssetType != AssetONT && asset.AssetType != AssetRouter {
		return nil, invalidState("asset %s is a %s, not swappable hardware",
			asset.SerialNumber, asset.AssetType)
	}
	if asset.Status != AssetAssigned {
		return nil, invalidState("asset %s is not installed (status %s)",
			asset.SerialNumber, asset.Status)
	}
	return asset, nil
}
