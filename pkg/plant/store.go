package plant

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store provides entity access for the fiber plant registry. All
// workflow mutations go through Transaction so that multi-row updates
// commit or abort as a unit.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the registry tables.
func (s *Store) AutoMigrate() error {
	models := []any{
		&Headend{},
		&Fdh{},
		&Splitter{},
		&Customer{},
		&Asset{},
		&AssignedAsset{},
		&DeploymentTask{},
		&FiberDropLine{},
		&Technician{},
		&AuditEvent{},
	}
	for _, m := range models {
		if err := s.db.AutoMigrate(m); err != nil {
			return fmt.Errorf("auto-migrate registry tables: %w", err)
		}
	}
	return nil
}

// Transaction runs fn against a transaction-scoped store. Any error
// returned by fn rolls back every write made inside it.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// forUpdate applies a row-level write lock where the backend supports
// it. SQLite serializes writers on its own and rejects FOR UPDATE.
func (s *Store) forUpdate() *gorm.DB {
	if s.db.Dialector.Name() == "sqlite" {
		return s.db
	}
	return s.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func first[T any](db *gorm.DB, entity string, conds ...any) (*T, error) {
	var record T
	err := db.First(&record, conds...).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", entity, err)
	}
	return &record, nil
}

// CustomerByID returns the customer or nil if absent.
func (s *Store) CustomerByID(id int64) (*Customer, error) {
	return first[Customer](s.db, "customer", "id = ?", id)
}

// CustomerByIDForUpdate returns the customer under a row lock.
func (s *Store) CustomerByIDForUpdate(id int64) (*Customer, error) {
	return first[Customer](s.forUpdate(), "customer", "id = ?", id)
}

// SplitterByID returns the splitter or nil if absent.
func (s *Store) SplitterByID(id int64) (*Splitter, error) {
	return first[Splitter](s.db, "splitter", "id = ?", id)
}

// SplitterByIDForUpdate returns the splitter under a row lock, so that
// concurrent port bookkeeping on the same splitter serializes.
func (s *Store) SplitterByIDForUpdate(id int64) (*Splitter, error) {
	return first[Splitter](s.forUpdate(), "splitter", "id = ?", id)
}

// FdhByID returns the FDH or nil if absent.
func (s *Store) FdhByID(id int64) (*Fdh, error) {
	return first[Fdh](s.db, "fdh", "id = ?", id)
}

// HeadendByID returns the headend or nil if absent.
func (s *Store) HeadendByID(id int64) (*Headend, error) {
	return first[Headend](s.db, "headend", "id = ?", id)
}

// TechnicianByID returns the technician or nil if absent.
func (s *Store) TechnicianByID(id int64) (*Technician, error) {
	return first[Technician](s.db, "technician", "id = ?", id)
}

// AssetByID returns the asset or nil if absent.
func (s *Store) AssetByID(id int64) (*Asset, error) {
	return first[Asset](s.db, "asset", "id = ?", id)
}

// AssetByIDForUpdate returns the asset under a row lock, preventing two
// concurrent task completions from reserving the same hardware.
func (s *Store) AssetByIDForUpdate(id int64) (*Asset, error) {
	return first[Asset](s.forUpdate(), "asset", "id = ?", id)
}

// AssetBySerial returns the asset with the given serial number or nil.
func (s *Store) AssetBySerial(serial string) (*Asset, error) {
	return first[Asset](s.db, "asset", "serial_number = ?", serial)
}

// TaskByID returns the deployment task or nil if absent.
func (s *Store) TaskByID(id int64) (*DeploymentTask, error) {
	return first[DeploymentTask](s.db, "deployment task", "id = ?", id)
}

// MirrorAsset returns the shadow asset record mirroring the given
// infrastructure row, or nil when the mirror is missing (dangling
// mirrors are tolerated by the workflows).
func (s *Store) MirrorAsset(assetType AssetType, relatedEntityID int64) (*Asset, error) {
	return first[Asset](s.db, "mirror asset",
		"asset_type = ? AND related_entity_id = ?", assetType, relatedEntityID)
}

// MirrorAssetForUpdate returns the mirror asset under a row lock.
func (s *Store) MirrorAssetForUpdate(assetType AssetType, relatedEntityID int64) (*Asset, error) {
	return first[Asset](s.forUpdate(), "mirror asset",
		"asset_type = ? AND related_entity_id = ?", assetType, relatedEntityID)
}

// Save inserts or updates an entity.
func (s *Store) Save(entity any) error {
	if err := s.db.Save(entity).Error; err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Create inserts a new entity.
func (s *Store) Create(entity any) error {
	if err := s.db.Create(entity).Error; err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// Delete removes an entity.
func (s *Store) Delete(entity any) error {
	if err := s.db.Delete(entity).Error; err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// CountCustomersBySplitter counts customers currently bound to the
// splitter. Deactivation clears the binding, so every counted row is a
// live dependent.
func (s *Store) CountCustomersBySplitter(splitterID int64) (int64, error) {
	var n int64
	err := s.db.Model(&Customer{}).Where("splitter_id = ?", splitterID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count customers by splitter: %w", err)
	}
	return n, nil
}

// CountSplittersByFdh counts splitters hanging off the FDH.
func (s *Store) CountSplittersByFdh(fdhID int64) (int64, error) {
	var n int64
	err := s.db.Model(&Splitter{}).Where("fdh_id = ?", fdhID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count splitters by fdh: %w", err)
	}
	return n, nil
}

// PortOccupied reports whether a non-inactive customer already holds the
// given port on the splitter.
func (s *Store) PortOccupied(splitterID int64, port int) (bool, error) {
	var n int64
	err := s.db.Model(&Customer{}).
		Where("splitter_id = ? AND assigned_port = ? AND status <> ?",
			splitterID, port, CustomerInactive).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check port occupancy: %w", err)
	}
	return n > 0, nil
}

// AssignedAssetsByCustomer returns the asset link rows for a customer.
func (s *Store) AssignedAssetsByCustomer(customerID int64) ([]AssignedAsset, error) {
	var links []AssignedAsset
	err := s.db.Where("customer_id = ?", customerID).Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list assigned assets: %w", err)
	}
	return links, nil
}

// Headends returns all headends, or only those in the given city when
// city is non-empty.
func (s *Store) Headends(city string) ([]Headend, error) {
	var headends []Headend
	q := s.db.Order("id ASC")
	if city != "" {
		q = q.Where("city = ?", city)
	}
	if err := q.Find(&headends).Error; err != nil {
		return nil, fmt.Errorf("list headends: %w", err)
	}
	return headends, nil
}

// FdhsByHeadend returns the FDHs under a headend.
func (s *Store) FdhsByHeadend(headendID int64) ([]Fdh, error) {
	var fdhs []Fdh
	err := s.db.Where("headend_id = ?", headendID).Order("id ASC").Find(&fdhs).Error
	if err != nil {
		return nil, fmt.Errorf("list fdhs by headend: %w", err)
	}
	return fdhs, nil
}

// SplittersByFdh returns the splitters under an FDH.
func (s *Store) SplittersByFdh(fdhID int64) ([]Splitter, error) {
	var splitters []Splitter
	err := s.db.Where("fdh_id = ?", fdhID).Order("id ASC").Find(&splitters).Error
	if err != nil {
		return nil, fmt.Errorf("list splitters by fdh: %w", err)
	}
	return splitters, nil
}

// CustomersBySplitterOrdered returns the customers bound to a splitter,
// ordered by assigned port ascending.
func (s *Store) CustomersBySplitterOrdered(splitterID int64) ([]Customer, error) {
	var customers []Customer
	err := s.db.Where("splitter_id = ?", splitterID).
		Order("assigned_port ASC").Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("list customers by splitter: %w", err)
	}
	return customers, nil
}

// Customers returns customers filtered by city and status; empty values
// mean no filter on that dimension.
func (s *Store) Customers(city string, status CustomerStatus) ([]Customer, error) {
	q := s.db.Order("id ASC")
	if city != "" {
		q = q.Where("city = ?", city)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var customers []Customer
	if err := q.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// Assets returns assets filtered by type and status; empty values mean
// no filter on that dimension.
func (s *Store) Assets(assetType AssetType, status AssetStatus) ([]Asset, error) {
	q := s.db.Order("id ASC")
	if assetType != "" {
		q = q.Where("asset_type = ?", assetType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var assets []Asset
	if err := q.Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// TasksByTechnician returns a technician's tasks, optionally filtered
// by status, newest scheduled first.
func (s *Store) TasksByTechnician(technicianID int64, status TaskStatus) ([]DeploymentTask, error) {
	q := s.db.Where("technician_id = ?", technicianID).Order("scheduled_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []DeploymentTask
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks by technician: %w", err)
	}
	return tasks, nil
}

// Tasks returns all tasks, optionally filtered by status, newest
// scheduled first.
func (s *Store) Tasks(status TaskStatus) ([]DeploymentTask, error) {
	q := s.db.Order("scheduled_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []DeploymentTask
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Technicians returns all technicians.
func (s *Store) Technicians() ([]Technician, error) {
	var technicians []Technician
	if err := s.db.Order("id ASC").Find(&technicians).Error; err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	return technicians, nil
}

// DistinctRegions returns the distinct FDH regions, optionally limited
// to FDHs whose headend is in the given city.
func (s *Store) DistinctRegions(city string) ([]string, error) {
	q := s.db.Model(&Fdh{}).Distinct("region").Where("region <> ''")
	if city != "" {
		q = q.Joins("JOIN headends ON headends.id = fdhs.headend_id").
			Where("headends.city = ?", city)
	}
	var regions []string
	if err := q.Order("region ASC").Pluck("region", &regions).Error; err != nil {
		return nil, fmt.Errorf("list distinct regions: %w", err)
	}
	return regions, nil
}

// FdhsByCity returns the FDHs whose headend is in the given city,
// optionally narrowed to one region.
func (s *Store) FdhsByCity(city, region string) ([]Fdh, error) {
	q := s.db.Joins("JOIN headends ON headends.id = fdhs.headend_id").
		Where("headends.city = ?", city).Order("fdhs.id ASC")
	if region != "" {
		q = q.Where("fdhs.region = ?", region)
	}
	var fdhs []Fdh
	if err := q.Find(&fdhs).Error; err != nil {
		return nil, fmt.Errorf("list fdhs by city: %w", err)
	}
	return fdhs, nil
}
