package api

import "context"

// Disk is a storage device attached to the Freebox
type Disk struct {
	ID          int         `json:"id"`
	Type        string      `json:"type"` // internal, usb, sata
	State       string      `json:"state"`
	TotalBytes  int64       `json:"total_bytes"`
	Model       string      `json:"model"`
	Serial      string      `json:"serial"`
	Firmware    string      `json:"firmware"`
	Temp        int         `json:"temp"`
	Spinning    bool        `json:"spinning"`
	ActiveTime  int64       `json:"active_duration"`
	IdleTime    int64       `json:"idle_duration"`
	TableType   string      `json:"table_type"`
	ReadErrors  int64       `json:"read_error_requests"`
	WriteErrors int64       `json:"write_error_requests"`
	Partitions  []Partition `json:"partitions"`
}

// Partition is a partition of a disk
type Partition struct {
	ID         int    `json:"id"`
	DiskID     int    `json:"disk_id"`
	State      string `json:"state"`
	FSType     string `json:"fstype"`
	Label      string `json:"label"`
	Path       string `json:"path"` // base64 encoded mount point
	TotalBytes int64  `json:"total_bytes"`
	UsedBytes  int64  `json:"used_bytes"`
	FreeBytes  int64  `json:"free_bytes"`
	FSCKResult string `json:"fsck_result"`
}

// StorageConfig holds storage-wide settings
type StorageConfig struct {
	ExternalPartitionsRW bool   `json:"external_partitions_rw"`
	ExternalPartitionsIO string `json:"external_partitions_io"`
	PowerSaving          bool   `json:"power_saving"`
}

// Storage exposes storage/ endpoints
type Storage struct {
	c Caller
}

// NewStorage creates the storage module
func NewStorage(c Caller) *Storage {
	return &Storage{c: c}
}

// Disks lists the disks
func (m *Storage) Disks(ctx context.Context) ([]Disk, error) {
	return decode[[]Disk](m.c.Get(ctx, "storage/disk/"))
}

// Disk returns one disk
func (m *Storage) Disk(ctx context.Context, id int) (Disk, error) {
	return decode[Disk](m.c.Get(ctx, "storage/disk/"+itoa(id)))
}

// Partitions lists the partitions of every disk
func (m *Storage) Partitions(ctx context.Context) ([]Partition, error) {
	return decode[[]Partition](m.c.Get(ctx, "storage/partition/"))
}

// Config returns the storage settings
func (m *Storage) Config(ctx context.Context) (StorageConfig, error) {
	return decode[StorageConfig](m.c.Get(ctx, "storage/config/"))
}
