package plant

// CustomerStatus represents the connection lifecycle of a customer.
type CustomerStatus string

const (
	CustomerPending   CustomerStatus = "PENDING"
	CustomerScheduled CustomerStatus = "SCHEDULED"
	CustomerActive    CustomerStatus = "ACTIVE"
	CustomerInactive  CustomerStatus = "INACTIVE"
)

// AssetType classifies a trackable inventory unit.
type AssetType string

const (
	AssetONT      AssetType = "ONT"
	AssetRouter   AssetType = "ROUTER"
	AssetSplitter AssetType = "SPLITTER"
	AssetFDH      AssetType = "FDH"
)

// AssetStatus represents the custody state of an asset.
type AssetStatus string

const (
	AssetAvailable AssetStatus = "AVAILABLE"
	AssetAssigned  AssetStatus = "ASSIGNED"
)

// TaskStatus represents deployment task progress. Status only ever
// advances; COMPLETED is terminal.
type TaskStatus string

const (
	TaskScheduled  TaskStatus = "SCHEDULED"
	TaskInProgress TaskStatus = "INPROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

// FiberLineStatus represents the state of a fiber drop line.
type FiberLineStatus string

const (
	FiberLineActive FiberLineStatus = "ACTIVE"
)

// Audit action types emitted by the workflows.
const (
	ActionAssignmentCreate   = "ASSIGNMENT_CREATE"
	ActionTaskCreate         = "TASK_CREATE"
	ActionTaskComplete       = "TASK_COMPLETE"
	ActionCustomerCreate     = "CUSTOMER_CREATE"
	ActionCustomerDeactivate = "CUSTOMER_DEACTIVATE"
	ActionAssetCreate        = "ASSET_CREATE"
	ActionAssetDelete        = "ASSET_DELETE"
)
