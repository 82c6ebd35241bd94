package parted

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Infinidat/infi.parted/internal/parted/types"
	"github.com/Infinidat/infi.parted/internal/system"
)

// TextDecoder decodes the human-formatted fixed-width dump emitted by parted
// versions (or hosts) without machine-parsable output support. Partition rows
// are column-sliced at the byte offsets of the header row's column names.
type TextDecoder struct{}

var (
	// legacyDiskLineExp matches the "Disk <path>: <size>" line of the dump.
	legacyDiskLineExp = regexp.MustCompile(`(?m)^Disk (/\S+): (\S+)$`)

	// legacyLabelLineExp matches the "Partition Table: <type>" line of the dump.
	legacyLabelLineExp = regexp.MustCompile(`(?m)^Partition Table: (\S+)$`)
)

// legacyColumnBound is the slice bound for the last column of a row. Rows never
// reach this width; the slice is clamped to the row length.
const legacyColumnBound = 512

// legacyColumns returns the header column names for the label type, in the
// order parted prints them. The 5th and 6th columns swap meaning between the
// label types, mirroring the machine-parsable field order.
func legacyColumns(label string) []string {
	switch label {
	case types.LabelMSDOS:
		return []string{"Number", "Start", "End", "Size", "Type", "File system", "Flags"}
	case types.LabelGPT:
		return []string{"Number", "Start", "End", "Size", "File system", "Name", "Flags"}
	default:
		return nil
	}
}

// DecodeTable parses the legacy fixed-width dump for one disk.
func (d *TextDecoder) DecodeTable(product *system.Product, raw string) (*types.Table, error) {
	diskMatch := legacyDiskLineExp.FindStringSubmatch(raw)
	if diskMatch == nil {
		return nil, fmt.Errorf("parted: no disk line in output: %q", raw)
	}

	size, err := parseBytes(diskMatch[2])
	if err != nil {
		return nil, fmt.Errorf("parted: disk size: %w", err)
	}

	table := &types.Table{
		DevicePath: diskMatch[1],
		SizeBytes:  size,
	}

	labelMatch := legacyLabelLineExp.FindStringSubmatch(raw)
	if labelMatch == nil {
		return nil, fmt.Errorf("parted: no partition table line in output: %q", raw)
	}
	table.Label = labelMatch[1]

	columns := legacyColumns(table.Label)
	if columns == nil {
		// Unrecognized label type: report the table itself but no rows.
		return table, nil
	}

	rows, offsets, err := legacyRows(raw, columns)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		fields := sliceColumns(row, offsets)

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

// legacyRows locates the header row, derives each column's byte offset from its
// name position, and returns the partition rows that follow the header.
func legacyRows(raw string, columns []string) (rows []string, offsets []int, err error) {
	lines := strings.Split(raw, "\n")

	header := -1
	for i, line := range lines {
		if strings.Contains(line, columns[0]) && strings.Contains(line, columns[1]) {
			header = i
			break
		}
	}
	if header < 0 {
		// A table with no partitions prints no header row.
		return nil, nil, nil
	}

	for _, name := range columns {
		offset := strings.Index(lines[header], name)
		if offset < 0 {
			return nil, nil, fmt.Errorf("parted: column %q missing from header %q", name, lines[header])
		}
		offsets = append(offsets, offset)
	}

	for _, line := range lines[header+1:] {
		if strings.TrimSpace(line) == "" {
			break
		}
		rows = append(rows, line)
	}

	return rows, offsets, nil
}

// sliceColumns cuts a fixed-width row into trimmed fields, bounding each column
// by the start offset of the next one.
func sliceColumns(row string, offsets []int) []string {
	fields := make([]string, len(offsets))
	for i, start := range offsets {
		end := legacyColumnBound
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}

		if start > len(row) {
			start = len(row)
		}
		if end > len(row) {
			end = len(row)
		}

		fields[i] = strings.TrimSpace(row[start:end])
	}
	return fields
}
