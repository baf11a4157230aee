package plant

import (
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB creates an in-memory SQLite DB with all registry tables
// migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewStore(db)
	require.NoError(t, store.AutoMigrate())
	return db
}

// testRegistry bundles the services under test against one shared DB.
type testRegistry struct {
	db          *gorm.DB
	store       *Store
	audit       *AuditStore
	assets      *AssetManager
	customers   *CustomerManager
	assignments *AssignmentCoordinator
	tasks       *TaskCoordinator
	topology    *TopologyBuilder
	infra       *InfraManager
}

func newTestRegistry(t *testing.T) *testRegistry {
	t.Helper()
	db := newTestDB(t)
	store := NewStore(db)
	log := slog.Default()
	audit := NewAuditStore(db, log)
	return &testRegistry{
		db:          db,
		store:       store,
		audit:       audit,
		assets:      NewAssetManager(store, audit, log),
		customers:   NewCustomerManager(store, audit, log),
		assignments: NewAssignmentCoordinator(store, audit, log),
		tasks:       NewTaskCoordinator(store, audit, log),
		topology:    NewTopologyBuilder(store),
		infra:       NewInfraManager(store, log),
	}
}

// seedPlant creates a small plant: one headend in Springfield, one FDH
// ("FDH-North", region "Neighborhood A1") with its mirror asset, one
// splitter (capacity 4) with its mirror asset, and one technician
// linked to user 42.
type seededPlant struct {
	headend    *Headend
	fdh        *Fdh
	splitter   *Splitter
	technician *Technician
}

func seedPlant(t *testing.T, r *testRegistry) *seededPlant {
	t.Helper()
	headend, err := r.infra.CreateHeadend(CreateHeadendRequest{
		Name: "Springfield Headend", City: "Springfield", Location: "Central Office",
	})
	require.NoError(t, err)

	fdh, err := r.infra.CreateFdh(CreateFdhRequest{
		HeadendID: headend.ID, Name: "FDH-North", Region: "Neighborhood A1",
		MaxPorts: 32, Location: "Corner of 5th",
	})
	require.NoError(t, err)

	splitter, err := r.infra.CreateSplitter(CreateSplitterRequest{
		FdhID: fdh.ID, SerialNumber: "SPL-0001", Model: "1:4 PLC",
		PortCapacity: 4, Location: "Pole 12",
	})
	require.NoError(t, err)

	userID := int64(42)
	technician, err := r.infra.CreateTechnician(CreateTechnicianRequest{
		Name: "Dana", Region: "Neighborhood A1", UserID: &userID,
	})
	require.NoError(t, err)

	return &seededPlant{headend: headend, fdh: fdh, splitter: splitter, technician: technician}
}

// seedCustomer creates a PENDING customer in Springfield.
func seedCustomer(t *testing.T, r *testRegistry, name string) *Customer {
	t.Helper()
	customer, err := r.customers.Create(CreateCustomerRequest{
		Name: name, Address: "12 Elm St", City: "Springfield", Plan: "fiber-300",
	})
	require.NoError(t, err)
	return customer
}

// seedHardware creates an AVAILABLE ONT and router pair.
func seedHardware(t *testing.T, r *testRegistry, suffix string) (ont, router *Asset) {
	t.Helper()
	var err error
	ont, err = r.assets.Create(CreateAssetRequest{
		AssetType: AssetONT, SerialNumber: "ONT-" + suffix, Model: "G-240W",
	})
	require.NoError(t, err)
	router, err = r.assets.Create(CreateAssetRequest{
		AssetType: AssetRouter, SerialNumber: "RTR-" + suffix, Model: "AX1800",
	})
	require.NoError(t, err)
	return ont, router
}

// assignAndComplete runs a customer through assignment and task
// completion, returning the hardware pair.
func assignAndComplete(t *testing.T, r *testRegistry, p *seededPlant, customer *Customer, port int, suffix string) (ont, router *Asset) {
	t.Helper()
	ont, router = seedHardware(t, r, suffix)
	require.NoError(t, r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID:        customer.ID,
		SplitterID:        p.splitter.ID,
		TechnicianID:      p.technician.ID,
		Port:              port,
		Neighborhood:      "A1",
		FiberLengthMeters: 30,
	}))
	tasks, err := r.tasks.ByTechnician(p.technician.ID, TaskScheduled)
	require.NoError(t, err)
	var task *DeploymentTask
	for i := range tasks {
		if tasks[i].CustomerID == customer.ID {
			task = &tasks[i]
			break
		}
	}
	require.NotNil(t, task, "no scheduled task for customer %d", customer.ID)
	require.NoError(t, r.tasks.Complete(task.ID, CompleteTaskRequest{
		OntAssetID:      &ont.ID,
		RouterAssetID:   &router.ID,
		CompletionNotes: "installed",
	}))
	return ont, router
}
