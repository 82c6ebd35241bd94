package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Infinidat/infi.parted/internal/parted"
)

// mkfsArgs holds all information passed into the mkfs command.
type mkfsArgs struct {
	device   string
	number   int
	fs       string
	extended map[string]string
}

// mkfsCommand creates a new command which formats a partition.
func mkfsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mkfs",
		Short:   "format a partition",
		PreRunE: assertRootPrivileges,
	}

	args := mkfsArgs{}
	cmd.PersistentFlags().StringVar(&args.device, "device", "", "device access path (e.g. /dev/sdb)")
	cmd.PersistentFlags().IntVar(&args.number, "number", 1, "partition number to format")
	cmd.PersistentFlags().StringVar(&args.fs, "fs", "ext4", "filesystem to create")
	cmd.PersistentFlags().StringToStringVar(&args.extended, "extended", nil, "extended -E options (k=v,...)")
	cmd.MarkPersistentFlagRequired("device")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		disk, err := diskForDevice(cmd, args.device)
		if err != nil {
			return err
		}

		opts := parted.MkfsOptions{Extended: args.extended}
		if err := disk.FormatPartition(cmd.Context(), args.number, args.fs, opts); err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"device":     args.device,
			"partition":  args.number,
			"filesystem": args.fs,
		}).Info("Formatted partition")

		return nil
	}

	return cmd
}
