// Package types holds the partition-table data model produced by reading a disk.
// Values are constructed fresh on every read and never mutated.
package types

// Disk label types supported by the orchestration layer.
const (
	LabelGPT   = "gpt"
	LabelMSDOS = "msdos"
)

// Partition is the capability set common to both partition variants.
type Partition interface {
	// Number returns the 1-based partition ordinal, unique within a table.
	Number() int
	// SizeBytes returns the partition size in bytes.
	SizeBytes() uint64
	// DevicePath returns the partition's device-node path.
	DevicePath() string
	// Filesystem returns the filesystem name reported by the table dump, or ""
	// when the partition carries none.
	Filesystem() string
}

// MBRPartition holds the attributes parsed from one row of an msdos table dump.
type MBRPartition struct {
	number     int
	typeTag    string
	filesystem string
	startBytes uint64
	endBytes   uint64
	devicePath string
	sizeBytes  uint64
}

// NewMBRPartition constructs an MBRPartition from parsed row fields. The
// reported size may overstate by one byte due to the tool's inclusive boundary
// rounding, so the authoritative size is min(end-start, reported).
func NewMBRPartition(devicePath string, number int, typeTag, filesystem string, start, end, reported uint64) *MBRPartition {
	return &MBRPartition{
		number:     number,
		typeTag:    typeTag,
		filesystem: filesystem,
		startBytes: start,
		endBytes:   end,
		devicePath: devicePath,
		sizeBytes:  authoritativeSize(start, end, reported),
	}
}

func (p *MBRPartition) Number() int { return p.number }
func (p *MBRPartition) SizeBytes() uint64 { return p.sizeBytes }
func (p *MBRPartition) DevicePath() string { return p.devicePath }
func (p *MBRPartition) Filesystem() string { return p.filesystem }
func (p *MBRPartition) StartBytes() uint64 { return p.startBytes }
func (p *MBRPartition) EndBytes() uint64 { return p.endBytes }

// Type returns the tool-specific partition type tag (e.g. "primary").
func (p *MBRPartition) Type() string { return p.typeTag }

// GUIDPartition holds the attributes parsed from one row of a gpt table dump.
type GUIDPartition struct {
	number     int
	name       string
	filesystem string
	startBytes uint64
	endBytes   uint64
	devicePath string
	sizeBytes  uint64
}

// NewGUIDPartition constructs a GUIDPartition from parsed row fields, with the
// same size reconciliation as NewMBRPartition.
func NewGUIDPartition(devicePath string, number int, name, filesystem string, start, end, reported uint64) *GUIDPartition {
	return &GUIDPartition{
		number:     number,
		name:       name,
		filesystem: filesystem,
		startBytes: start,
		endBytes:   end,
		devicePath: devicePath,
		sizeBytes:  authoritativeSize(start, end, reported),
	}
}

func (p *GUIDPartition) Number() int { return p.number }
func (p *GUIDPartition) SizeBytes() uint64 { return p.sizeBytes }
func (p *GUIDPartition) DevicePath() string { return p.devicePath }
func (p *GUIDPartition) Filesystem() string { return p.filesystem }
func (p *GUIDPartition) StartBytes() uint64 { return p.startBytes }
func (p *GUIDPartition) EndBytes() uint64 { return p.endBytes }

// Name returns the partition's free-text label.
func (p *GUIDPartition) Name() string { return p.name }

// authoritativeSize reconciles the reported size field with the start/end
// offsets: the smaller of the two computations wins, and the result is never
// negative.
func authoritativeSize(start, end, reported uint64) uint64 {
	var span uint64
	if end > start {
		span = end - start
	}
	if reported < span {
		return reported
	}
	return span
}

// Table is the read result for a disk's partition table. Label is "" when the
// disk has no recognizable table.
type Table struct {
	DevicePath string
	SizeBytes  uint64
	Label      string
	Partitions []Partition
}
