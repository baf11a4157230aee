package plant

import (
	"fmt"
	"log/slog"
	"time"
)

// AssignmentCoordinator binds a pending customer to a splitter port and
// drives everything that hangs off that binding: mirror asset
// activation, the fiber drop record, port bookkeeping, and the
// deployment task for the field visit.
type AssignmentCoordinator struct {
	store    *Store
	recorder Recorder
	logger   *slog.Logger

	// taskLeadTime is how far ahead the deployment visit is scheduled.
	taskLeadTime time.Duration
}

// NewAssignmentCoordinator creates a new AssignmentCoordinator. The
// deployment visit is scheduled one day out.
func NewAssignmentCoordinator(store *Store, recorder Recorder, logger *slog.Logger) *AssignmentCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignmentCoordinator{
		store:        store,
		recorder:     recorder,
		logger:       logger,
		taskLeadTime: 24 * time.Hour,
	}
}

// AssignmentRequest carries the parameters of a network path assignment.
type AssignmentRequest struct {
	CustomerID        int64   `json:"customerId"`
	SplitterID        int64   `json:"splitterId"`
	TechnicianID      int64   `json:"technicianId"`
	Port              int     `json:"port"`
	Neighborhood      string  `json:"neighborhood"`
	FiberLengthMeters float64 `json:"fiberLengthMeters"`
	OperatorID        *int64  `json:"operatorId,omitempty"`
}

// AssignNetworkPath runs the assignment workflow as one transaction:
// it activates the splitter and FDH mirror assets on first use, binds
// the customer to the port, creates the fiber drop line, increments the
// splitter's port count, and schedules the deployment task. The
// customer moves PENDING -> SCHEDULED. Any failure rolls the whole
// workflow back; the audit event is emitted only after commit.
func (c *AssignmentCoordinator) AssignNetworkPath(req AssignmentRequest) error {
	var (
		customerName   string
		technicianName string
		taskID         int64
	)

	err := c.store.Transaction(func(tx *Store) error {
		customer, err := tx.CustomerByIDForUpdate(req.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return notFound("customer", req.CustomerID)
		}
		if customer.Status != CustomerPending {
			return invalidState("customer %d is in status %s, not PENDING",
				customer.ID, customer.Status)
		}
		customerName = customer.Name

		// The splitter row lock serializes concurrent assignments
		// against the same splitter, keeping the port checks and the
		// usedPorts increment consistent.
		splitter, err := tx.SplitterByIDForUpdate(req.SplitterID)
		if err != nil {
			return err
		}
		if splitter == nil {
			return notFound("splitter", req.SplitterID)
		}

		if req.Port < 1 || req.Port > splitter.PortCapacity {
			return invalidInput("port %d is out of range for splitter %d (capacity %d)",
				req.Port, splitter.ID, splitter.PortCapacity)
		}
		occupied, err := tx.PortOccupied(splitter.ID, req.Port)
		if err != nil {
			return err
		}
		if occupied {
			return conflict("port %d on splitter %d is already assigned",
				req.Port, splitter.ID)
		}
		if splitter.UsedPorts >= splitter.PortCapacity {
			return conflict("splitter %d has no free ports (%d/%d used)",
				splitter.ID, splitter.UsedPorts, splitter.PortCapacity)
		}

		technician, err := tx.TechnicianByID(req.TechnicianID)
		if err != nil {
			return err
		}
		if technician == nil {
			return notFound("technician", req.TechnicianID)
		}
		technicianName = technician.Name

		// First customer through a splitter or FDH activates its
		// mirror asset.
		if err := reserveMirror(tx, AssetSplitter, splitter.ID, customer.ID, c.logger); err != nil {
			return err
		}
		if err := reserveMirror(tx, AssetFDH, splitter.FdhID, customer.ID, c.logger); err != nil {
			return err
		}

		customer.SplitterID = &splitter.ID
		customer.AssignedPort = req.Port
		customer.Neighborhood = req.Neighborhood
		customer.Status = CustomerScheduled
		if err := tx.Save(customer); err != nil {
			return err
		}

		line := &FiberDropLine{
			SplitterID:   splitter.ID,
			CustomerID:   customer.ID,
			LengthMeters: req.FiberLengthMeters,
			Status:       FiberLineActive,
		}
		if err := tx.Create(line); err != nil {
			return err
		}

		splitter.UsedPorts++
		if err := tx.Save(splitter); err != nil {
			return err
		}

		task := &DeploymentTask{
			CustomerID:    customer.ID,
			TechnicianID:  technician.ID,
			Status:        TaskScheduled,
			ScheduledDate: time.Now().Add(c.taskLeadTime),
			Notes: fmt.Sprintf("Assign network path: Splitter %d, Port %d. Fiber Length: %gm",
				splitter.ID, req.Port, req.FiberLengthMeters),
		}
		if err := tx.Create(task); err != nil {
			return err
		}
		taskID = task.ID
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("network path assigned",
		"customerId", req.CustomerID,
		"splitterId", req.SplitterID,
		"port", req.Port,
		"taskId", taskID)
	c.recorder.Record(ActionAssignmentCreate,
		fmt.Sprintf("Assigned network path (Splitter: %d, Port: %d, Neighborhood: %s, Tech: %s) to customer %q (ID: %d)",
			req.SplitterID, req.Port, req.Neighborhood, technicianName, customerName, req.CustomerID),
		req.OperatorID)
	return nil
}
