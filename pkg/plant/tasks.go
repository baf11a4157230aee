package plant

import (
	"fmt"
	"log/slog"
	"time"
)

// TaskCoordinator creates deployment tasks and finalizes them, which is
// the step that turns reserved hardware into an active customer.
type TaskCoordinator struct {
	store    *Store
	recorder Recorder
	logger   *slog.Logger
}

// NewTaskCoordinator creates a new TaskCoordinator.
func NewTaskCoordinator(store *Store, recorder Recorder, logger *slog.Logger) *TaskCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskCoordinator{store: store, recorder: recorder, logger: logger}
}

// CreateTaskRequest carries the fields for a manually created task.
type CreateTaskRequest struct {
	CustomerID    int64     `json:"customerId"`
	TechnicianID  int64     `json:"technicianId"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Priority      string    `json:"priority"`
	Notes         string    `json:"notes"`
}

// Create schedules a deployment task outside the assignment workflow.
func (c *TaskCoordinator) Create(req CreateTaskRequest) (*DeploymentTask, error) {
	customer, err := c.store.CustomerByID(req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, notFound("customer", req.CustomerID)
	}
	technician, err := c.store.TechnicianByID(req.TechnicianID)
	if err != nil {
		return nil, err
	}
	if technician == nil {
		return nil, notFound("technician", req.TechnicianID)
	}

	task := &DeploymentTask{
		CustomerID:    customer.ID,
		TechnicianID:  technician.ID,
		Status:        TaskScheduled,
		ScheduledDate: req.ScheduledDate,
		Priority:      req.Priority,
		Notes:         req.Notes,
	}
	if err := c.store.Create(task); err != nil {
		return nil, err
	}

	c.recorder.Record(ActionTaskCreate,
		fmt.Sprintf("Created task %d for customer %q (ID: %d), assigned to technician %q (ID: %d)",
			task.ID, customer.Name, customer.ID, technician.Name, technician.ID),
		technician.UserID)
	return task, nil
}

// CompleteTaskRequest carries the hardware chosen at completion time.
type CompleteTaskRequest struct {
	OntAssetID      *int64 `json:"ontAssetId"`
	RouterAssetID   *int64 `json:"routerAssetId"`
	CompletionNotes string `json:"completionNotes"`
}

// Complete finalizes a deployment task as one transaction: the ONT and
// router are reserved for the task's customer, the two link rows are
// created, and the customer goes ACTIVE. The task must still be
// SCHEDULED or INPROGRESS; both assets must be AVAILABLE. The audit
// event is attributed to the technician's linked user when one exists.
func (c *TaskCoordinator) Complete(taskID int64, req CompleteTaskRequest) error {
	var (
		customerName string
		customerID   int64
		ontSerial    string
		routerSerial string
		actorID      *int64
	)

	err := c.store.Transaction(func(tx *Store) error {
		task, err := tx.TaskByID(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return notFound("task", taskID)
		}
		customer, err := tx.CustomerByIDForUpdate(task.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return notFound("customer for task", taskID)
		}
		if task.Status != TaskScheduled && task.Status != TaskInProgress {
			return invalidState("task %d cannot be completed from status %s",
				task.ID, task.Status)
		}
		customerName = customer.Name
		customerID = customer.ID

		ont, err := reserveHardware(tx, req.OntAssetID, "ONT asset")
		if err != nil {
			return err
		}
		router, err := reserveHardware(tx, req.RouterAssetID, "router asset")
		if err != nil {
			return err
		}
		ontSerial = ont.SerialNumber
		routerSerial = router.SerialNumber

		task.Status = TaskCompleted
		if task.Notes != "" {
			task.Notes += "\n"
		}
		task.Notes += "Completed: " + req.CompletionNotes
		if err := tx.Save(task); err != nil {
			return err
		}

		now := time.Now()
		for _, asset := range []*Asset{ont, router} {
			asset.Status = AssetAssigned
			asset.AssignedToCustomerID = &customer.ID
			asset.AssignedDate = &now
			if err := tx.Save(asset); err != nil {
				return err
			}
			link := &AssignedAsset{CustomerID: customer.ID, AssetID: asset.ID}
			if err := tx.Create(link); err != nil {
				return err
			}
		}

		customer.Status = CustomerActive
		if err := tx.Save(customer); err != nil {
			return err
		}

		technician, err := tx.TechnicianByID(task.TechnicianID)
		if err != nil {
			return err
		}
		if technician == nil {
			c.logger.Warn("task has no technician record", "taskId", task.ID)
		} else if technician.UserID == nil {
			c.logger.Warn("technician is not linked to a user account",
				"technicianId", technician.ID)
		} else {
			actorID = technician.UserID
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("deployment task completed",
		"taskId", taskID,
		"customerId", customerID,
		"ont", ontSerial,
		"router", routerSerial)
	c.recorder.Record(ActionTaskComplete,
		fmt.Sprintf("Completed task %d for customer %q (ID: %d). Assigned ONT: %s, Router: %s. Notes: %s",
			taskID, customerName, customerID, ontSerial, routerSerial, req.CompletionNotes),
		actorID)
	return nil
}

// reserveHardware validates that the referenced asset exists and is
// AVAILABLE, returning it locked for the rest of the transaction.
func reserveHardware(tx *Store, assetID *int64, label string) (*Asset, error) {
	if assetID == nil {
		return nil, invalidInput("%s id is required", label)
	}
	asset, err := tx.AssetByIDForUpdate(*assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, notFound(label, *assetID)
	}
	if asset.Status != AssetAvailable {
		return nil, invalidState("asset %d (%s) is not AVAILABLE, current status: %s",
			asset.ID, asset.SerialNumber, asset.Status)
	}
	return asset, nil
}

// ByTechnician returns a technician's tasks filtered by status.
func (c *TaskCoordinator) ByTechnician(technicianID int64, status TaskStatus) ([]DeploymentTask, error) {
	return c.store.TasksByTechnician(technicianID, status)
}

// List returns tasks, optionally filtered by status, newest first.
func (c *TaskCoordinator) List(status TaskStatus) ([]DeploymentTask, error) {
	return c.store.Tasks(status)
}

// Get returns a task by id.
func (c *TaskCoordinator) Get(id int64) (*DeploymentTask, error) {
	task, err := c.store.TaskByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, notFound("task", id)
	}
	return task, nil
}
