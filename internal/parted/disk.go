package parted

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Infinidat/infi.parted/internal/parted/identifier"
	"github.com/Infinidat/infi.parted/internal/parted/types"
	"github.com/Infinidat/infi.parted/internal/retry"
	"github.com/Infinidat/infi.parted/internal/system"
	"github.com/Infinidat/infi.parted/internal/util"
)

// minimumStartOffsets maps a label type to the minimum byte offset at which a
// first partition may begin, before any requested alignment is applied.
var minimumStartOffsets = map[string]uint64{
	types.LabelGPT:   17408,
	types.LabelMSDOS: 512,
}

// deviceReadinessPolicy is the retry budget used while waiting for a freshly
// created partition's device node to appear through the OS device layer.
var deviceReadinessPolicy = retry.Policy{
	Attempts: 30,
	Interval: 3 * time.Second,
}

// wholeDrivePartitionName is the GPT partition name assigned by
// CreatePartitionForWholeDrive.
const wholeDrivePartitionName = "primary"

// Disk is a handle to one block device plus the behavior to read and mutate its
// partition table. The handle caches nothing: every operation re-reads the
// table live from the tool. Concurrent orchestration against the same device
// path is undefined and must be serialized by the caller.
type Disk struct {
	path    string
	product *system.Product
	runner  Runner
	cfg     Config
	dec     Decoder

	// readiness and probe are replaceable for tests.
	readiness retry.Policy
	probe     func(path string) error
}

// NewDisk binds a Disk handle to the device at path, using the parted
// configuration detected at startup and the host product for device-node
// naming.
func NewDisk(path string, product *system.Product, runner Runner, cfg Config) *Disk {
	return &Disk{
		path:      path,
		product:   product,
		runner:    runner,
		cfg:       cfg,
		dec:       cfg.decoder(),
		readiness: deviceReadinessPolicy,
		probe:     probeDeviceNode,
	}
}

// Path returns the disk's device access path.
func (d *Disk) Path() string { return d.path }

// execute runs one parted verb against the disk and classifies any failure
// through the output-pattern table. Benign failures are logged and reported as
// success.
func (d *Disk) execute(ctx context.Context, verb ...string) (string, error) {
	out, err := d.runner.Run(ctx, d.cfg.commandArgs(d.path, verb...))
	if err == nil {
		return out.Stdout, nil
	}
	if util.IsNotFound(err) {
		return "", ErrNotInstalled
	}

	switch classifyOutput(out) {
	case verdictBenign:
		logrus.WithFields(logrus.Fields{
			"device": d.path,
			"stdout": out.Stdout,
			"stderr": out.Stderr,
		}).Debug("Ignoring benign parted failure")
		return out.Stdout, nil
	case verdictNoTable:
		return "", ErrNoPartitionTable
	case verdictRetryWithoutToken:
		return "", errInvalidToken
	default:
		return "", &ExitError{Code: out.ExitCode, Message: errorMessage(out.Stderr)}
	}
}

// ReadTable reads the disk's partition table. It returns ErrNoPartitionTable
// when the disk carries none, and an InvalidTableError for any other read
// failure.
func (d *Disk) ReadTable(ctx context.Context) (*types.Table, error) {
	raw, err := d.execute(ctx, "unit", "B", "print")
	if err != nil {
		if errors.Is(err, ErrNoPartitionTable) || errors.Is(err, ErrNotInstalled) {
			return nil, err
		}
		return nil, &InvalidTableError{Device: d.path, Err: err}
	}

	return d.dec.DecodeTable(d.product, raw)
}

// HasPartitionTable reports whether the disk carries a partition table.
func (d *Disk) HasPartitionTable(ctx context.Context) (bool, error) {
	_, err := d.ReadTable(ctx)
	if errors.Is(err, ErrNoPartitionTable) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// TableType returns the disk's label type, or "" when the disk has no
// partition table.
func (d *Disk) TableType(ctx context.Context) (string, error) {
	table, err := d.ReadTable(ctx)
	if errors.Is(err, ErrNoPartitionTable) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return table.Label, nil
}

// SizeBytes returns the disk's total size as reported by the table dump.
func (d *Disk) SizeBytes(ctx context.Context) (uint64, error) {
	table, err := d.ReadTable(ctx)
	if err != nil {
		return 0, err
	}
	return table.SizeBytes, nil
}

// Partitions returns the disk's partitions, freshly parsed. A disk without a
// partition table yields an empty sequence, not an error.
func (d *Disk) Partitions(ctx context.Context) ([]types.Partition, error) {
	table, err := d.ReadTable(ctx)
	if errors.Is(err, ErrNoPartitionTable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return table.Partitions, nil
}

// CreatePartitionTable writes a fresh partition table of the given label type.
func (d *Disk) CreatePartitionTable(ctx context.Context, label string) error {
	if _, ok := minimumStartOffsets[label]; !ok {
		return fmt.Errorf("parted: unsupported disk label %q", label)
	}

	logrus.WithFields(logrus.Fields{
		"device": d.path,
		"label":  label,
	}).Info("Creating partition table")

	_, err := d.execute(ctx, "mklabel", label)
	return err
}

// DestroyPartitionTable is not supported by the underlying tool.
func (d *Disk) DestroyPartitionTable(ctx context.Context) error {
	return fmt.Errorf("destroy partition table: %w", ErrNotImplemented)
}

// ResizePartition is not supported by the underlying tool.
func (d *Disk) ResizePartition(ctx context.Context, number int, sizeBytes uint64) error {
	return fmt.Errorf("resize partition: %w", ErrNotImplemented)
}

// CreatePartitionForWholeDrive creates a single partition spanning the whole
// disk. A disk without a table first receives a gpt one. The start offset is
// the label type's minimum, rounded up to alignmentBytes when nonzero; the end
// offset is the disk size minus the start. After creation the kernel is forced
// to re-read the table and the call blocks until the new partition's device
// node is usable.
//
// A table of an unrecognized label type is skipped silently: the operation is a
// no-op, not an error.
func (d *Disk) CreatePartitionForWholeDrive(ctx context.Context, filesystem string, alignmentBytes uint64) error {
	has, err := d.HasPartitionTable(ctx)
	if err != nil {
		return err
	}
	if !has {
		if err := d.CreatePartitionTable(ctx, types.LabelGPT); err != nil {
			return err
		}
	}

	table, err := d.ReadTable(ctx)
	if err != nil {
		return err
	}

	start, ok := minimumStartOffsets[table.Label]
	if !ok {
		logrus.WithFields(logrus.Fields{
			"device": d.path,
			"label":  table.Label,
		}).Warn("Skipping whole-drive partition for unrecognized label type")
		return nil
	}
	if alignmentBytes > 0 {
		start = roundUp(start, alignmentBytes)
	}
	end := table.SizeBytes - start

	logrus.WithFields(logrus.Fields{
		"device":     d.path,
		"label":      table.Label,
		"filesystem": filesystem,
		"start":      start,
		"end":        end,
	}).Info("Creating whole-drive partition")

	if err := d.makePartition(ctx, table.Label, filesystem, start, end); err != nil {
		return err
	}

	if err := d.RereadPartitionTable(ctx); err != nil {
		return err
	}

	return d.waitForDeviceNode(ctx, 1)
}

// makePartition issues the mkpart call for the label type. Some parted versions
// reject the filesystem-type hint token; on that specific failure the call is
// reissued without the hint.
func (d *Disk) makePartition(ctx context.Context, label, filesystem string, start, end uint64) error {
	_, err := d.execute(ctx, mkpartArgs(label, filesystem, start, end)...)
	if errors.Is(err, errInvalidToken) {
		logrus.WithField("device", d.path).Debug("Filesystem hint rejected, retrying mkpart without it")
		_, err = d.execute(ctx, mkpartArgs(label, "", start, end)...)
	}
	return err
}

// mkpartArgs builds the mkpart verb: unit B mkpart [primary|<name>] [<fs>]
// <start>B <end>B.
func mkpartArgs(label, filesystem string, start, end uint64) []string {
	verb := []string{"unit", "B", "mkpart"}
	switch label {
	case types.LabelGPT:
		verb = append(verb, wholeDrivePartitionName)
	default:
		verb = append(verb, "primary")
	}
	if filesystem != "" {
		verb = append(verb, filesystem)
	}
	verb = append(verb, fmt.Sprintf("%dB", start), fmt.Sprintf("%dB", end))

	return verb
}

// FormatPartition formats the numbered partition with the given filesystem.
// The tool's own mkfs subcommand is unreliable across versions ("not
// implemented yet" is tolerated as success), so the OS filesystem-creation tool
// is always invoked against the partition's device node as well.
func (d *Disk) FormatPartition(ctx context.Context, number int, filesystem string, opts MkfsOptions) error {
	logrus.WithFields(logrus.Fields{
		"device":     d.path,
		"partition":  number,
		"filesystem": filesystem,
	}).Info("Formatting partition")

	if _, err := d.execute(ctx, "mkfs", strconv.Itoa(number), filesystem); err != nil {
		return err
	}

	if err := d.RereadPartitionTable(ctx); err != nil {
		return err
	}

	node := identifier.PartitionDevicePath(d.product, d.path, number)
	out, err := d.runner.Run(ctx, mkfsCommand(filesystem, node, opts))
	if err != nil {
		if util.IsNotFound(err) {
			return fmt.Errorf("mkfs.%s is not installed: %w", filesystem, err)
		}
		return fmt.Errorf("mkfs.%s on %s: %s: %w", filesystem, node, strings.TrimSpace(out.Stderr), err)
	}

	return nil
}

// PartitionFilesystem identifies the filesystem present on the numbered
// partition via blkid. An unformatted partition yields "".
func (d *Disk) PartitionFilesystem(ctx context.Context, number int) (string, error) {
	node := identifier.PartitionDevicePath(d.product, d.path, number)

	out, err := d.runner.Run(ctx, []string{"blkid", node})
	if err != nil {
		if util.IsNotFound(err) {
			return "", fmt.Errorf("blkid is not installed: %w", err)
		}
		// blkid exits nonzero for devices without any recognizable content.
		return "", nil
	}

	return parseBlkidFilesystem(out.Stdout), nil
}

// blkidTypeExp matches the TYPE token in blkid output.
var blkidTypeExp = regexp.MustCompile(`TYPE="([^"]*)"`)

// parseBlkidFilesystem extracts the filesystem name from blkid's stdout.
func parseBlkidFilesystem(raw string) string {
	match := blkidTypeExp.FindStringSubmatch(raw)
	if match == nil {
		return ""
	}
	return match[1]
}

// RereadPartitionTable forces the kernel to pick up the latest on-disk layout:
// partprobe for every device, plus a multipath map flush and re-scan for
// device-mapper backed disks. Rescan failures are logged, not escalated; the
// subsequent device-node readiness wait is the authoritative check.
func (d *Disk) RereadPartitionTable(ctx context.Context) error {
	if out, err := d.runner.Run(ctx, []string{"partprobe", d.path}); err != nil {
		if util.IsNotFound(err) {
			return fmt.Errorf("partprobe is not installed: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"device": d.path,
			"stderr": out.Stderr,
		}).Warn("partprobe reported a failure")
	}

	if strings.Contains(d.path, "/dev/mapper") {
		if out, err := d.runner.Run(ctx, []string{"multipath", "-f", filepath.Base(d.path)}); err != nil {
			logrus.WithFields(logrus.Fields{
				"device": d.path,
				"stderr": out.Stderr,
			}).Debug("multipath flush reported a failure")
		}
		if out, err := d.runner.Run(ctx, []string{"multipath"}); err != nil {
			logrus.WithFields(logrus.Fields{
				"device": d.path,
				"stderr": out.Stderr,
			}).Debug("multipath re-scan reported a failure")
		}
	}

	return nil
}

// waitForDeviceNode blocks until the numbered partition's device node is
// present and readable, under the bounded readiness retry budget.
func (d *Disk) waitForDeviceNode(ctx context.Context, number int) error {
	node := identifier.PartitionDevicePath(d.product, d.path, number)

	logrus.WithField("device", node).Info("Waiting for partition device node")
	if err := d.readiness.Do(ctx, func() error { return d.probe(node) }); err != nil {
		return &DeviceNotReadyError{Device: node, Err: err}
	}

	return nil
}

// probeDeviceNode verifies that the device node exists and that the first
// sector can actually be read through it.
func probeDeviceNode(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sector := make([]byte, 512)
	if _, err := f.Read(sector); err != nil && err != io.EOF {
		return err
	}

	return nil
}

// MkfsOptions carries the extended options passed to the OS filesystem-creation
// tool. Any supplied option serializes into a single -E k1=v1,k2,... argument.
type MkfsOptions struct {
	// Extended maps -E option names to values; an option with an empty value
	// serializes bare.
	Extended map[string]string
}

// extendedArg renders the -E argument value, with option names sorted for a
// stable argv.
func (o MkfsOptions) extendedArg() string {
	if len(o.Extended) == 0 {
		return ""
	}

	names := make([]string, 0, len(o.Extended))
	for name := range o.Extended {
		names = append(names, name)
	}
	sort.Strings(names)

	options := make([]string, 0, len(names))
	for _, name := range names {
		if value := o.Extended[name]; value != "" {
			options = append(options, name+"="+value)
		} else {
			options = append(options, name)
		}
	}

	return strings.Join(options, ",")
}

// mkfsCommand builds the OS filesystem-creation argv: mkfs.<fs> -F [-E opts] <node>.
func mkfsCommand(filesystem, node string, opts MkfsOptions) []string {
	argv := []string{"mkfs." + filesystem, "-F"}
	if extended := opts.extendedArg(); extended != "" {
		argv = append(argv, "-E", extended)
	}
	argv = append(argv, node)

	return argv
}

// roundUp rounds value up to the next multiple of step.
func roundUp(value, step uint64) uint64 {
	if remainder := value % step; remainder != 0 {
		return value + step - remainder
	}
	return value
}
