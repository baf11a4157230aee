package plant

import (
	"fmt"
	"log/slog"
	"strings"
)

// InfraManager handles administrative intake of plant infrastructure:
// headends, FDHs, and splitters. FDH and splitter creation also creates
// the mirrored asset record so the hardware shows up in inventory.
type InfraManager struct {
	store  *Store
	logger *slog.Logger
}

// NewInfraManager creates a new InfraManager.
func NewInfraManager(store *Store, logger *slog.Logger) *InfraManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &InfraManager{store: store, logger: logger}
}

// CreateHeadendRequest carries the fields for a new headend.
type CreateHeadendRequest struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Location string `json:"location"`
}

// CreateHeadend registers a new root facility.
func (m *InfraManager) CreateHeadend(req CreateHeadendRequest) (*Headend, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, invalidInput("headend name is required")
	}
	headend := &Headend{Name: req.Name, City: req.City, Location: req.Location}
	if err := m.store.Create(headend); err != nil {
		return nil, err
	}
	return headend, nil
}

// CreateFdhRequest carries the fields for a new FDH.
type CreateFdhRequest struct {
	HeadendID int64  `json:"headendId"`
	Name      string `json:"name"`
	Region    string `json:"region"`
	MaxPorts  int    `json:"maxPorts"`
	Location  string `json:"location"`
}

// CreateFdh registers a new distribution hub under a headend and
// creates its mirrored FDH asset (serial number = FDH name) in the same
// transaction.
func (m *InfraManager) CreateFdh(req CreateFdhRequest) (*Fdh, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, invalidInput("fdh name is required")
	}
	if req.MaxPorts <= 0 {
		return nil, invalidInput("fdh maxPorts must be positive")
	}

	var fdh *Fdh
	err := m.store.Transaction(func(tx *Store) error {
		headend, err := tx.HeadendByID(req.HeadendID)
		if err != nil {
			return err
		}
		if headend == nil {
			return notFound("headend", req.HeadendID)
		}

		existing, err := tx.AssetBySerial(req.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return invalidInput("an asset with serial number %q already exists; fdh names double as serials",
				req.Name)
		}

		fdh = &Fdh{
			HeadendID: headend.ID,
			Name:      req.Name,
			Region:    req.Region,
			MaxPorts:  req.MaxPorts,
			Location:  req.Location,
		}
		if err := tx.Create(fdh); err != nil {
			return err
		}

		mirror := newMirrorAsset(AssetFDH, fdh.ID, fdh.Name,
			fmt.Sprintf("%d-Port FDH", fdh.MaxPorts), fdh.Location)
		return tx.Create(mirror)
	})
	if err != nil {
		return nil, err
	}
	return fdh, nil
}

// CreateSplitterRequest carries the fields for a new splitter. The
// serial number becomes the mirrored asset's serial.
type CreateSplitterRequest struct {
	FdhID        int64  `json:"fdhId"`
	SerialNumber string `json:"serialNumber"`
	Model        string `json:"model"`
	PortCapacity int    `json:"portCapacity"`
	Location     string `json:"location"`
}

// CreateSplitter registers a new splitter under an FDH and creates its
// mirrored SPLITTER asset in the same transaction.
func (m *InfraManager) CreateSplitter(req CreateSplitterRequest) (*Splitter, error) {
	if strings.TrimSpace(req.SerialNumber) == "" {
		return nil, invalidInput("splitter serial number is required")
	}
	if req.PortCapacity <= 0 {
		return nil, invalidInput("splitter portCapacity must be positive")
	}

	var splitter *Splitter
	err := m.store.Transaction(func(tx *Store) error {
		fdh, err := tx.FdhByID(req.FdhID)
		if err != nil {
			return err
		}
		if fdh == nil {
			return notFound("fdh", req.FdhID)
		}

		existing, err := tx.AssetBySerial(req.SerialNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return invalidInput("an asset with serial number %q already exists", req.SerialNumber)
		}

		splitter = &Splitter{
			FdhID:        fdh.ID,
			Model:        req.Model,
			PortCapacity: req.PortCapacity,
			Location:     req.Location,
		}
		if err := tx.Create(splitter); err != nil {
			return err
		}

		model := req.Model
		if model == "" {
			model = fmt.Sprintf("1:%d Splitter", req.PortCapacity)
		}
		mirror := newMirrorAsset(AssetSplitter, splitter.ID, req.SerialNumber, model, req.Location)
		return tx.Create(mirror)
	})
	if err != nil {
		return nil, err
	}
	return splitter, nil
}

// CreateTechnicianRequest carries the fields for a new technician.
type CreateTechnicianRequest struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	UserID *int64 `json:"userId,omitempty"`
}

// CreateTechnician registers a field worker, optionally linked to a
// user account for audit attribution.
func (m *InfraManager) CreateTechnician(req CreateTechnicianRequest) (*Technician, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, invalidInput("technician name is required")
	}
	technician := &Technician{Name: req.Name, Region: req.Region, UserID: req.UserID}
	if err := m.store.Create(technician); err != nil {
		return nil, err
	}
	return technician, nil
}

// Technicians returns all technicians.
func (m *InfraManager) Technicians() ([]Technician, error) {
	return m.store.Technicians()
}

// Regions returns the distinct FDH regions, optionally limited to one
// city.
func (m *InfraManager) Regions(city string) ([]string, error) {
	return m.store.DistinctRegions(city)
}

// FdhsByCity returns FDHs by city, optionally narrowed to one region.
func (m *InfraManager) FdhsByCity(city, region string) ([]Fdh, error) {
	return m.store.FdhsByCity(city, region)
}

// SplittersByFdh returns the splitters under an FDH.
func (m *InfraManager) SplittersByFdh(fdhID int64) ([]Splitter, error) {
	return m.store.SplittersByFdh(fdhID)
}
