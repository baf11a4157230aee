package plant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignNetworkPath(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	customer := seedCustomer(t, r, "Homer")

	err := r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID:        customer.ID,
		SplitterID:        p.splitter.ID,
		TechnicianID:      p.technician.ID,
		Port:              2,
		Neighborhood:      "A1",
		FiberLengthMeters: 45,
	})
	require.NoError(t, err)

	got, err := r.store.CustomerByID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, CustomerScheduled, got.Status)
	require.NotNil(t, got.SplitterID)
	assert.Equal(t, p.splitter.ID, *got.SplitterID)
	assert.Equal(t, 2, got.AssignedPort)
	assert.Equal(t, "A1", got.Neighborhood)

	splitter, err := r.store.SplitterByID(p.splitter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, splitter.UsedPorts)

	tasks, err := r.tasks.List(TaskScheduled)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, customer.ID, tasks[0].CustomerID)
	assert.Equal(t, p.technician.ID, tasks[0].TechnicianID)
	assert.Contains(t, tasks[0].Notes, "Port 2")

	var lines []FiberDropLine
	require.NoError(t, r.db.Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, p.splitter.ID, lines[0].SplitterID)
	assert.Equal(t, customer.ID, lines[0].CustomerID)
	assert.Equal(t, FiberLineActive, lines[0].Status)
	assert.Equal(t, 45.0, lines[0].LengthMeters)

	events, err := r.audit.List(ActionAssignmentCreate, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Description, "Homer")
}

func TestAssignNetworkPath_ActivatesMirrorAssets(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	first := seedCustomer(t, r, "Homer")
	second := seedCustomer(t, r, "Marge")

	require.NoError(t, r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: first.ID, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 1,
	}))

	splitterMirror, err := r.store.MirrorAsset(AssetSplitter, p.splitter.ID)
	require.NoError(t, err)
	require.NotNil(t, splitterMirror)
	assert.Equal(t, AssetAssigned, splitterMirror.Status)
	require.NotNil(t, splitterMirror.AssignedToCustomerID)
	assert.Equal(t, first.ID, *splitterMirror.AssignedToCustomerID)
	assert.NotNil(t, splitterMirror.AssignedDate)

	fdhMirror, err := r.store.MirrorAsset(AssetFDH, p.fdh.ID)
	require.NoError(t, err)
	require.NotNil(t, fdhMirror)
	assert.Equal(t, AssetAssigned, fdhMirror.Status)

	// A second assignment leaves already-activated mirrors alone.
	require.NoError(t, r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: second.ID, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 2,
	}))

	splitterMirror, err = r.store.MirrorAsset(AssetSplitter, p.splitter.ID)
	require.NoError(t, err)
	require.NotNil(t, splitterMirror.AssignedToCustomerID)
	assert.Equal(t, first.ID, *splitterMirror.AssignedToCustomerID)
}

func TestAssignNetworkPath_MissingMirrorTolerated(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	customer := seedCustomer(t, r, "Homer")

	// Drop the splitter mirror to simulate a dangling reference.
	mirror, err := r.store.MirrorAsset(AssetSplitter, p.splitter.ID)
	require.NoError(t, err)
	require.NoError(t, r.db.Delete(mirror).Error)

	err = r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: customer.ID, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 1,
	})
	require.NoError(t, err)

	got, err := r.store.CustomerByID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, CustomerScheduled, got.Status)
}

func TestAssignNetworkPath_PortOutOfRange(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	customer := seedCustomer(t, r, "Homer")

	for _, port := range []int{0, -1, 5} {
		err := r.assignments.AssignNetworkPath(AssignmentRequest{
			CustomerID: customer.ID, SplitterID: p.splitter.ID,
			TechnicianID: p.technician.ID, Port: port,
		})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "port %d", port)
	}

	// Nothing was mutated.
	got, err := r.store.CustomerByID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, CustomerPending, got.Status)
	assert.Nil(t, got.SplitterID)

	splitter, err := r.store.SplitterByID(p.splitter.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, splitter.UsedPorts)

	tasks, err := r.tasks.List("")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	var lines []FiberDropLine
	require.NoError(t, r.db.Find(&lines).Error)
	assert.Empty(t, lines)
}

func TestAssignNetworkPath_PortAlreadyTaken(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	first := seedCustomer(t, r, "Homer")
	second := seedCustomer(t, r, "Marge")

	require.NoError(t, r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: first.ID, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 3,
	}))

	err := r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: second.ID, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 3,
	})
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	got, err := r.store.CustomerByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, CustomerPending, got.Status)
}

func TestAssignNetworkPath_CapacityExhausted(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)

	// Fill all four ports.
	for port := 1; port <= 4; port++ {
		customer := seedCustomer(t, r, "Customer")
		require.NoError(t, r.assignments.AssignNetworkPath(AssignmentRequest{
			CustomerID: customer.ID, SplitterID: p.splitter.ID,
			TechnicianID: p.technician.ID, Port: port,
		}))
	}

	splitter, err := r.store.SplitterByID(p.splitter.ID)
	require.NoError(t, err)
	assert.Equal(t, splitter.PortCapacity, splitter.UsedPorts)

	// Every port is occupied now, so any in-range port conflicts.
	late := seedCustomer(t, r, "Ned")
	err = r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: late.ID, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 2,
	})
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	splitter, err = r.store.SplitterByID(p.splitter.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, splitter.UsedPorts, splitter.PortCapacity)
}

func TestAssignNetworkPath_CustomerNotPending(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	customer := seedCustomer(t, r, "Homer")

	require.NoError(t, r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: customer.ID, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 1,
	}))

	// Already SCHEDULED; a second assignment is a state error.
	err := r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: customer.ID, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 2,
	})
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Contains(t, err.Error(), "SCHEDULED")
}

func TestAssignNetworkPath_MissingEntities(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	customer := seedCustomer(t, r, "Homer")

	var notFoundErr *NotFoundError

	err := r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: 9999, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 1,
	})
	require.ErrorAs(t, err, &notFoundErr)

	err = r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: customer.ID, SplitterID: 9999,
		TechnicianID: p.technician.ID, Port: 1,
	})
	require.ErrorAs(t, err, &notFoundErr)

	err = r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: customer.ID, SplitterID: p.splitter.ID,
		TechnicianID: 9999, Port: 1,
	})
	require.ErrorAs(t, err, &notFoundErr)

	// Failed attempts leave the customer untouched.
	got, err := r.store.CustomerByID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, CustomerPending, got.Status)
}
