package parted

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/Infinidat/infi.parted/internal/parted/identifier"
	"github.com/Infinidat/infi.parted/internal/parted/types"
	"github.com/Infinidat/infi.parted/internal/system"
)

// Decoder outlines the functionality necessary for decoding a raw parted table
// dump into the structured data model. Two implementations exist, matching the
// two output formats parted emits across versions; the right one is selected
// once at configuration time.
type Decoder interface {
	// DecodeTable parses the raw output of "parted ... unit B print" for one disk.
	// The host product is needed to derive partition device-node paths.
	DecodeTable(product *system.Product, raw string) (*types.Table, error)
}

// MachineDecoder decodes the colon-delimited rows emitted by parted --machine.
type MachineDecoder struct{}

// DecodeTable parses the machine-parsable dump: the second row describes the
// disk (path:size:transport:sector sizes:label type:model) and every subsequent
// row describes one partition, terminated by a semicolon.
func (d *MachineDecoder) DecodeTable(product *system.Product, raw string) (*types.Table, error) {
	lines := nonEmptyLines(raw)
	if len(lines) < 2 {
		return nil, fmt.Errorf("parted: truncated machine output: %q", raw)
	}

	diskFields := splitMachineRow(lines[1])
	if len(diskFields) < 6 {
		return nil, fmt.Errorf("parted: malformed disk row: %q", lines[1])
	}

	size, err := parseBytes(diskFields[1])
	if err != nil {
		return nil, fmt.Errorf("parted: disk size: %w", err)
	}

	table := &types.Table{
		DevicePath: diskFields[0],
		SizeBytes:  size,
		Label:      diskFields[5],
	}

	for _, line := range lines[2:] {
		fields := splitMachineRow(line)
		if len(fields) < 6 {
			return nil, fmt.Errorf("parted: malformed partition row: %q", line)
		}

		partition, err := partitionFromFields(product, table.DevicePath, table.Label, fields)
		if err != nil {
			return nil, err
		}
		if partition != nil {
			table.Partitions = append(table.Partitions, partition)
		}
	}

	return table, nil
}

// splitMachineRow strips the trailing semicolon from a machine-parsable row and
// splits it into its colon-delimited fields.
func splitMachineRow(line string) []string {
	return strings.Split(strings.TrimSuffix(strings.TrimSpace(line), ";"), ":")
}

// partitionFromFields assigns row fields to the partition variant matching the
// label type. The 5th and 6th fields swap meaning between the variants: an MBR
// row carries type-then-filesystem, a GUID row carries filesystem-then-name.
// Rows of an unrecognized label type are skipped.
func partitionFromFields(product *system.Product, diskPath, label string, fields []string) (types.Partition, error) {
	number, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("parted: partition number %q: %w", fields[0], err)
	}

	start, err := parseBytes(fields[1])
	if err != nil {
		return nil, fmt.Errorf("parted: partition %d start: %w", number, err)
	}
	end, err := parseBytes(fields[2])
	if err != nil {
		return nil, fmt.Errorf("parted: partition %d end: %w", number, err)
	}
	reported, err := parseBytes(fields[3])
	if err != nil {
		return nil, fmt.Errorf("parted: partition %d size: %w", number, err)
	}

	node := identifier.PartitionDevicePath(product, diskPath, number)

	switch label {
	case types.LabelMSDOS:
		return types.NewMBRPartition(node, number, fields[4], fields[5], start, end, reported), nil
	case types.LabelGPT:
		return types.NewGUIDPartition(node, number, fields[5], fields[4], start, end, reported), nil
	default:
		logrus.WithFields(logrus.Fields{
			"device": diskPath,
			"label":  label,
		}).Warn("Skipping partition row of unrecognized label type")
		return nil, nil
	}
}

// nonEmptyLines splits raw output into lines, dropping blanks.
func nonEmptyLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseBytes parses a parted size or offset field. Fields normally carry a unit
// suffix ("17408B", "137GB"); when the value cannot be parsed as a structured
// capacity the leading integer is taken instead.
func parseBytes(field string) (uint64, error) {
	field = strings.TrimSpace(field)

	if value, err := humanize.ParseBytes(field); err == nil {
		return value, nil
	}

	end := 0
	for end < len(field) && field[end] >= '0' && field[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("unparsable capacity %q", field)
	}

	return strconv.ParseUint(field[:end], 10, 64)
}
