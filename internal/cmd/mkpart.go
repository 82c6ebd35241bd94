package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// mkpartArgs holds all information passed into the mkpart command.
type mkpartArgs struct {
	device    string
	fs        string
	alignment uint64
}

// mkpartCommand creates a new command which partitions a whole drive.
func mkpartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mkpart",
		Short:   "create one partition spanning the whole drive",
		PreRunE: assertRootPrivileges,
	}

	args := mkpartArgs{}
	cmd.PersistentFlags().StringVar(&args.device, "device", "", "device access path (e.g. /dev/sdb)")
	cmd.PersistentFlags().StringVar(&args.fs, "fs", "", "filesystem-type hint passed to the tool (e.g. ext4)")
	cmd.PersistentFlags().Uint64Var(&args.alignment, "alignment", 0, "round the start offset up to this many bytes")
	cmd.MarkPersistentFlagRequired("device")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		disk, err := diskForDevice(cmd, args.device)
		if err != nil {
			return err
		}

		if err := disk.CreatePartitionForWholeDrive(cmd.Context(), args.fs, args.alignment); err != nil {
			return err
		}

		logrus.WithField("device", args.device).Info("Created whole-drive partition")

		return nil
	}

	return cmd
}
