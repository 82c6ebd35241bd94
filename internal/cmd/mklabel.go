package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// mklabelArgs holds all information passed into the mklabel command.
type mklabelArgs struct {
	device string
	label  string
}

// mklabelCommand creates a new command which writes a fresh partition table.
func mklabelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mklabel",
		Short:   "create a new partition table",
		PreRunE: assertRootPrivileges,
	}

	args := mklabelArgs{}
	cmd.PersistentFlags().StringVar(&args.device, "device", "", "device access path (e.g. /dev/sdb)")
	cmd.PersistentFlags().StringVar(&args.label, "label", "gpt", "partition table label type (gpt or msdos)")
	cmd.MarkPersistentFlagRequired("device")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		disk, err := diskForDevice(cmd, args.device)
		if err != nil {
			return err
		}

		if err := disk.CreatePartitionTable(cmd.Context(), args.label); err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"device": args.device,
			"label":  args.label,
		}).Info("Created partition table")

		return nil
	}

	return cmd
}
