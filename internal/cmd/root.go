// Package cmd provides the CLI surface over the partition-table library.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Infinidat/infi.parted/internal/build"
	"github.com/Infinidat/infi.parted/internal/contextual"
	"github.com/Infinidat/infi.parted/internal/parted"
)

// MainCommand provides the main program entrypoint that dispatches to the
// partitioning subcommands.
func MainCommand() *cobra.Command {
	cmd := rootCommand()

	cmds := []*cobra.Command{
		printCommand(),
		mklabelCommand(),
		mkpartCommand(),
		mkfsCommand(),
	}
	for i := range cmds {
		cmd.AddCommand(cmds[i])
	}

	return cmd
}

// rootCommand builds a root command object for program run.
func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infi-parted",
		Short: "partition-table operations over GNU parted",
		Long: strings.TrimSpace(`
This command wraps GNU parted behind a stable interface: it reconciles the
tool's version-specific output formats into one data model and drives the
create/format workflows, including the kernel re-scan and device-node wait.
`),
		Version:      build.Version,
		SilenceUsage: true,
	}

	versionTemplate := "{{.Name}} {{.Version}} [%s]\n\n%s\n"
	cmd.SetVersionTemplate(fmt.Sprintf(versionTemplate, build.CommitDate, build.GitHubLink))

	var verbose bool
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := logrus.InfoLevel
		if verbose {
			level = logrus.DebugLevel
		}
		setupLogging(level)

		return nil
	}

	return cmd
}

// setupLogging configures logrus to use the desired timestamp format and log level.
func setupLogging(level logrus.Level) {
	Formatter := &logrus.TextFormatter{}

	// Configure the formatter
	Formatter.TimestampFormat = time.RFC822
	Formatter.FullTimestamp = true

	// Set the desired log level
	logrus.SetLevel(level)

	logrus.SetFormatter(Formatter)
}

// diskForDevice configures a Disk handle for the device, detecting the parted
// configuration and taking the host product from the command context.
func diskForDevice(cmd *cobra.Command, device string) (*parted.Disk, error) {
	ctx := cmd.Context()
	product := contextual.Product(ctx)
	if product == nil {
		return nil, errors.New("product required in context")
	}

	runner := parted.ExecRunner{}
	cfg, err := parted.Detect(ctx, runner)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"version": cfg.Version.String(),
		"machine": cfg.MachineReadable,
	}).Debug("Configured parted")

	return parted.NewDisk(device, product, runner, cfg), nil
}

func hasRootPrivileges() bool {
	return os.Geteuid() == 0
}

// assertRootPrivileges checks if the command is running with root permissions.
// If the command doesn't have root permissions, a help message is logged with
// an example and an error is returned.
func assertRootPrivileges(cmd *cobra.Command, args []string) error {
	logrus.Debug("Checking user permissions...")
	ok := hasRootPrivileges()
	if !ok {
		logrus.Warn("Root privileges required")
		return errors.New("root privileges required, re-run command with sudo")
	}

	return nil
}
