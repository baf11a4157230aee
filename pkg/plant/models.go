package plant

import "time"

// Headend is the root facility distributing fiber to a city.
type Headend struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	City      string    `gorm:"index" json:"city"`
	Location  string    `json:"location"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Headend) TableName() string { return "headends" }

// Fdh is a fiber distribution hub under a headend, serving a region.
// Creating one also creates its mirrored FDH asset record.
type Fdh struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	HeadendID int64     `gorm:"index;not null" json:"headendId"`
	Name      string    `gorm:"not null" json:"name"`
	Region    string    `gorm:"index" json:"region"`
	MaxPorts  int       `json:"maxPorts"`
	Location  string    `json:"location"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Fdh) TableName() string { return "fdhs" }

// Splitter is a passive device under an FDH with a fixed port capacity.
// UsedPorts is mutated only by the assignment and deactivation workflows,
// which hold a row lock while doing so.
type Splitter struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	FdhID        int64     `gorm:"index;not null" json:"fdhId"`
	Model        string    `json:"model"`
	PortCapacity int       `gorm:"not null" json:"portCapacity"`
	UsedPorts    int       `gorm:"not null;default:0" json:"usedPorts"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Splitter) TableName() string { return "splitters" }

// Customer is a subscriber premises. AssignedPort is meaningful only
// while SplitterID is set.
type Customer struct {
	ID             int64          `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Address        string         `json:"address"`
	City           string         `gorm:"index" json:"city"`
	Neighborhood   string         `json:"neighborhood"`
	Plan           string         `json:"plan"`
	ConnectionType string         `json:"connectionType"`
	Status         CustomerStatus `gorm:"index;default:PENDING;not null" json:"status"`
	SplitterID     *int64         `gorm:"index" json:"splitterId,omitempty"`
	AssignedPort   int            `json:"assignedPort"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Customer) TableName() string { return "customers" }

// Asset is a trackable inventory unit. ONT and ROUTER assets are
// physically swappable hardware; SPLITTER and FDH assets are shadow
// inventory records of the infrastructure row named by RelatedEntityID.
type Asset struct {
	ID                   int64       `gorm:"primaryKey" json:"id"`
	AssetType            AssetType   `gorm:"index;not null" json:"assetType"`
	SerialNumber         string      `gorm:"uniqueIndex;not null" json:"serialNumber"`
	Model                string      `json:"model"`
	Location             string      `json:"location"`
	Status               AssetStatus `gorm:"index;default:AVAILABLE;not null" json:"status"`
	RelatedEntityID      *int64      `gorm:"index" json:"relatedEntityId,omitempty"`
	AssignedToCustomerID *int64      `gorm:"index" json:"assignedToCustomerId,omitempty"`
	AssignedDate         *time.Time  `json:"assignedDate,omitempty"`
	CreatedAt            time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Asset) TableName() string { return "assets" }

// AssignedAsset links one asset to one customer. The unique index on
// AssetID guarantees at most one active link per asset.
type AssignedAsset struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	CustomerID int64     `gorm:"index;not null" json:"customerId"`
	AssetID    int64     `gorm:"uniqueIndex;not null" json:"assetId"`
	AssignedOn time.Time `gorm:"autoCreateTime" json:"assignedOn"`
}

// TableName returns the GORM table name.
func (AssignedAsset) TableName() string { return "assigned_assets" }

// DeploymentTask is a unit of field work assigned to a technician.
type DeploymentTask struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	CustomerID    int64      `gorm:"index;not null" json:"customerId"`
	TechnicianID  int64      `gorm:"index;not null" json:"technicianId"`
	Status        TaskStatus `gorm:"index;default:SCHEDULED;not null" json:"status"`
	ScheduledDate time.Time  `json:"scheduledDate"`
	Priority      string     `json:"priority"`
	Notes         string     `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (DeploymentTask) TableName() string { return "deployment_tasks" }

// FiberDropLine is the physical cable record connecting a splitter port
// to a customer premises. Created at assignment time, never mutated by
// the core afterwards.
type FiberDropLine struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	SplitterID   int64           `gorm:"index;not null" json:"splitterId"`
	CustomerID   int64           `gorm:"index;not null" json:"customerId"`
	LengthMeters float64         `json:"lengthMeters"`
	Status       FiberLineStatus `gorm:"default:ACTIVE;not null" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (FiberDropLine) TableName() string { return "fiber_drop_lines" }

// Technician is a field worker, optionally linked to a user account for
// audit attribution.
type Technician struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Region    string    `gorm:"index" json:"region"`
	UserID    *int64    `gorm:"index" json:"userId,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Technician) TableName() string { return "technicians" }

// AuditEvent is an immutable record of a workflow action.
type AuditEvent struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	CorrelationID string    `gorm:"index" json:"correlationId"`
	ActionType    string    `gorm:"index:idx_audit_type_time,priority:1;not null" json:"actionType"`
	Description   string    `gorm:"type:text" json:"description"`
	ActorID       *int64    `gorm:"index" json:"actorId,omitempty"`
	CreatedAt     time.Time `gorm:"index:idx_audit_type_time,priority:2;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (AuditEvent) TableName() string { return "audit_events" }
