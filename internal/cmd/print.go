package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Infinidat/infi.parted/internal/parted/types"
)

// printArgs holds all information passed into the print command.
type printArgs struct {
	device string
}

// printCommand creates a new command which renders a disk's partition table.
func printCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print",
		Short: "show a disk's partition table",
	}

	args := printArgs{}
	cmd.PersistentFlags().StringVar(&args.device, "device", "", "device access path (e.g. /dev/sdb)")
	cmd.MarkPersistentFlagRequired("device")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		disk, err := diskForDevice(cmd, args.device)
		if err != nil {
			return err
		}

		label, err := disk.TableType(cmd.Context())
		if err != nil {
			return err
		}
		if label == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no partition table\n", args.device)
			return nil
		}

		size, err := disk.SizeBytes(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", args.device, humanize.Bytes(size), label)

		partitions, err := disk.Partitions(cmd.Context())
		if err != nil {
			return err
		}

		renderPartitions(cmd, partitions)

		return nil
	}

	return cmd
}

// renderPartitions writes the partition rows as a text table.
func renderPartitions(cmd *cobra.Command, partitions []types.Partition) {
	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.AppendHeader(table.Row{"Number", "Size", "Filesystem", "Name/Type", "Device"})

	for _, p := range partitions {
		var detail string
		switch v := p.(type) {
		case *types.MBRPartition:
			detail = v.Type()
		case *types.GUIDPartition:
			detail = v.Name()
		}

		w.AppendRow(table.Row{p.Number(), humanize.Bytes(p.SizeBytes()), p.Filesystem(), detail, p.DevicePath()})
	}

	w.Render()
}
