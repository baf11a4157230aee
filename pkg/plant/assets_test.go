package plant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAsset(t *testing.T) {
	r := newTestRegistry(t)

	asset, err := r.assets.Create(CreateAssetRequest{
		AssetType: AssetONT, SerialNumber: "ONT-200", Model: "G-240W",
	})
	require.NoError(t, err)
	assert.Equal(t, AssetAvailable, asset.Status)

	events, err := r.audit.List(ActionAssetCreate, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Description, "ONT-200")
}

func TestCreateAsset_Rejections(t *testing.T) {
	r := newTestRegistry(t)
	seedHardware(t, r, "201")

	var validationErr *ValidationError

	_, err := r.assets.Create(CreateAssetRequest{AssetType: AssetONT, SerialNumber: " "})
	require.ErrorAs(t, err, &validationErr)

	_, err = r.assets.Create(CreateAssetRequest{AssetType: "MODEM", SerialNumber: "M-1"})
	require.ErrorAs(t, err, &validationErr)

	// Serial numbers are unique across the whole inventory, regardless
	// of type.
	_, err = r.assets.Create(CreateAssetRequest{AssetType: AssetRouter, SerialNumber: "ONT-201"})
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "ONT-201")
}

func TestDeleteAsset(t *testing.T) {
	r := newTestRegistry(t)
	ont, _ := seedHardware(t, r, "202")

	require.NoError(t, r.assets.Delete(ont.ID, nil))

	gone, err := r.store.AssetByID(ont.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	events, err := r.audit.List(ActionAssetDelete, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Description, "ONT-202")
}

func TestDeleteAsset_AssignedRefused(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	customer := seedCustomer(t, r, "Homer")
	ont, _ := assignAndComplete(t, r, p, customer, 1, "203")

	err := r.assets.Delete(ont.ID, nil)
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)

	still, err := r.store.AssetByID(ont.ID)
	require.NoError(t, err)
	require.NotNil(t, still)
}

func TestDeleteSplitterAsset_WithCustomersRefused(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	customer := seedCustomer(t, r, "Homer")
	require.NoError(t, r.assignments.AssignNetworkPath(AssignmentRequest{
		CustomerID: customer.ID, SplitterID: p.splitter.ID,
		TechnicianID: p.technician.ID, Port: 1,
	}))

	// The splitter mirror went ASSIGNED with the first customer, so put
	// it back to AVAILABLE to reach the dependency check itself.
	mirror, err := r.store.MirrorAsset(AssetSplitter, p.splitter.ID)
	require.NoError(t, err)
	require.NotNil(t, mirror)
	mirror.Status = AssetAvailable
	require.NoError(t, r.store.Save(mirror))

	err = r.assets.Delete(mirror.ID, nil)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Contains(t, err.Error(), "connected customers")

	// Neither row was removed.
	splitter, err := r.store.SplitterByID(p.splitter.ID)
	require.NoError(t, err)
	require.NotNil(t, splitter)
	still, err := r.store.AssetByID(mirror.ID)
	require.NoError(t, err)
	require.NotNil(t, still)
}

func TestDeleteSplitterAsset_CascadesToSplitterRow(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)

	mirror, err := r.store.MirrorAsset(AssetSplitter, p.splitter.ID)
	require.NoError(t, err)
	require.NotNil(t, mirror)

	require.NoError(t, r.assets.Delete(mirror.ID, nil))

	splitter, err := r.store.SplitterByID(p.splitter.ID)
	require.NoError(t, err)
	assert.Nil(t, splitter, "splitter row is deleted with its mirror asset")
}

func TestDeleteFdhAsset_WithSplittersRefused(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)

	mirror, err := r.store.MirrorAsset(AssetFDH, p.fdh.ID)
	require.NoError(t, err)
	require.NotNil(t, mirror)

	err = r.assets.Delete(mirror.ID, nil)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	fdh, err := r.store.FdhByID(p.fdh.ID)
	require.NoError(t, err)
	require.NotNil(t, fdh)
}

func TestDeleteAsset_DanglingMirrorTolerated(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)

	mirror, err := r.store.MirrorAsset(AssetSplitter, p.splitter.ID)
	require.NoError(t, err)
	require.NotNil(t, mirror)
	require.NoError(t, r.store.Delete(p.splitter))

	// The splitter row is already gone; the mirror asset still deletes.
	require.NoError(t, r.assets.Delete(mirror.ID, nil))
}

func TestDeleteAsset_NotFound(t *testing.T) {
	r := newTestRegistry(t)

	err := r.assets.Delete(9999, nil)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestFindSwappableBySerial(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	customer := seedCustomer(t, r, "Homer")
	assignAndComplete(t, r, p, customer, 1, "204")

	asset, err := r.assets.FindSwappableBySerial("ONT-204")
	require.NoError(t, err)
	assert.Equal(t, AssetONT, asset.AssetType)
	assert.Equal(t, AssetAssigned, asset.Status)

	_, err = r.assets.FindSwappableBySerial("no-such-serial")
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	// An uninstalled unit is not swappable.
	seedHardware(t, r, "205")
	var stateErr *InvalidStateError
	_, err = r.assets.FindSwappableBySerial("ONT-205")
	require.ErrorAs(t, err, &stateErr)

	// Infrastructure mirrors are not swappable hardware.
	_, err = r.assets.FindSwappableBySerial("SPL-0001")
	require.ErrorAs(t, err, &stateErr)
}

func TestFindAssets(t *testing.T) {
	r := newTestRegistry(t)
	p := seedPlant(t, r)
	customer := seedCustomer(t, r, "Homer")
	assignAndComplete(t, r, p, customer, 1, "206")
	seedHardware(t, r, "207")

	onts, err := r.assets.Find(AssetONT, "")
	require.NoError(t, err)
	assert.Len(t, onts, 2)

	available, err := r.assets.AvailableByType(AssetONT)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "ONT-207", available[0].SerialNumber)

	// seedPlant's FDH and splitter both register mirror assets.
	mirrors, err := r.assets.Find(AssetSplitter, "")
	require.NoError(t, err)
	assert.Len(t, mirrors, 1)
}
