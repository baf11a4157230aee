package plant

import (
	"fmt"
	"log/slog"
	"strings"
)

// CustomerManager creates and updates customer profiles and runs the
// deactivation workflow, which is the structural inverse of assignment
// plus task completion.
type CustomerManager struct {
	store    *Store
	recorder Recorder
	logger   *slog.Logger
}

// NewCustomerManager creates a new CustomerManager.
func NewCustomerManager(store *Store, recorder Recorder, logger *slog.Logger) *CustomerManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerManager{store: store, recorder: recorder, logger: logger}
}

// CreateCustomerRequest carries the fields for a new customer profile.
type CreateCustomerRequest struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Neighborhood   string `json:"neighborhood"`
	Plan           string `json:"plan"`
	ConnectionType string `json:"connectionType"`
	OperatorID     *int64 `json:"operatorId,omitempty"`
}

// Create registers a new customer in PENDING status.
func (m *CustomerManager) Create(req CreateCustomerRequest) (*Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, invalidInput("customer name is required")
	}
	customer := &Customer{
		Name:           req.Name,
		Address:        req.Address,
		City:           req.City,
		Neighborhood:   req.Neighborhood,
		Plan:           req.Plan,
		ConnectionType: req.ConnectionType,
		Status:         CustomerPending,
	}
	if err := m.store.Create(customer); err != nil {
		return nil, err
	}
	m.recorder.Record(ActionCustomerCreate,
		fmt.Sprintf("Created customer profile %q (ID: %d)", customer.Name, customer.ID),
		req.OperatorID)
	return customer, nil
}

// UpdateCustomerRequest carries the editable profile fields.
type UpdateCustomerRequest struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Neighborhood   string `json:"neighborhood"`
	Plan           string `json:"plan"`
	ConnectionType string `json:"connectionType"`
}

// Update edits a customer's profile fields. Network bindings and status
// are owned by the workflows and are not touched here.
func (m *CustomerManager) Update(id int64, req UpdateCustomerRequest) (*Customer, error) {
	customer, err := m.store.CustomerByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, notFound("customer", id)
	}
	customer.Name = req.Name
	customer.Address = req.Address
	customer.City = req.City
	customer.Neighborhood = req.Neighborhood
	customer.Plan = req.Plan
	customer.ConnectionType = req.ConnectionType
	if err := m.store.Save(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Get returns a customer by id.
func (m *CustomerManager) Get(id int64) (*Customer, error) {
	customer, err := m.store.CustomerByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, notFound("customer", id)
	}
	return customer, nil
}

// Find returns customers filtered by city and status. The literal "ALL"
// (any case) and empty input both mean no filter.
func (m *CustomerManager) Find(city string, status CustomerStatus) ([]Customer, error) {
	if strings.EqualFold(city, "all") {
		city = ""
	}
	return m.store.Customers(city, status)
}

// Deactivate disconnects a customer: the splitter port is freed, every
// linked asset is reclaimed to AVAILABLE, the link rows are removed, and
// the customer ends INACTIVE with no splitter binding. Deactivating an
// already INACTIVE customer is a successful no-op, so the operation is
// idempotent.
func (m *CustomerManager) Deactivate(customerID int64, operatorID *int64) error {
	var (
		reclaimed    []string
		splitterInfo string
		name         string
		alreadyDone  bool
	)

	err := m.store.Transaction(func(tx *Store) error {
		customer, err := tx.CustomerByIDForUpdate(customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return notFound("customer", customerID)
		}
		if customer.Status == CustomerInactive {
			alreadyDone = true
			return nil
		}
		name = customer.Name

		splitterInfo = "No splitter was assigned."
		if customer.SplitterID != nil {
			splitter, err := tx.SplitterByIDForUpdate(*customer.SplitterID)
			if err != nil {
				return err
			}
			if splitter == nil {
				m.logger.Warn("customer references missing splitter",
					"customerId", customer.ID,
					"splitterId", *customer.SplitterID)
			} else if splitter.UsedPorts > 0 {
				splitter.UsedPorts--
				if err := tx.Save(splitter); err != nil {
					return err
				}
				splitterInfo = fmt.Sprintf("Freed port %d on splitter %d.",
					customer.AssignedPort, splitter.ID)
			}
		}

		links, err := tx.AssignedAssetsByCustomer(customer.ID)
		if err != nil {
			return err
		}
		for _, link := range links {
			asset, err := tx.AssetByIDForUpdate(link.AssetID)
			if err != nil {
				return err
			}
			if asset != nil {
				asset.Status = AssetAvailable
				asset.AssignedToCustomerID = nil
				asset.AssignedDate = nil
				if err := tx.Save(asset); err != nil {
					return err
				}
				reclaimed = append(reclaimed, asset.SerialNumber)
			} else {
				m.logger.Warn("assigned asset link references missing asset",
					"customerId", customer.ID,
					"assetId", link.AssetID)
			}
			if err := tx.Delete(&link); err != nil {
				return err
			}
		}

		customer.Status = CustomerInactive
		customer.AssignedPort = 0
		customer.SplitterID = nil
		return tx.Save(customer)
	})
	if err != nil {
		return err
	}
	if alreadyDone {
		m.logger.Info("customer already inactive, nothing to do", "customerId", customerID)
		return nil
	}

	m.recorder.Record(ActionCustomerDeactivate,
		fmt.Sprintf("Deactivated customer %q (ID: %d). Reclaimed assets: %s. %s",
			name, customerID, strings.Join(reclaimed, ", "), splitterInfo),
		operatorID)
	return nil
}
