package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/githubnext/argolint/pkg/cli"
	"github.com/githubnext/argolint/pkg/constants"
	"github.com/githubnext/argolint/pkg/logger"
)

var mainLog = logger.New("main")

// Build-time variables.
var (
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     constants.CLIName,
	Short:   "Validate Argo CD Application manifests before they are applied",
	Version: version,
	Long: `argolint validates Argo CD Application manifests before they reach a cluster.

It checks the fields Argo CD requires, clones each source repository into a
persistent local cache, checks out the target revision, and renders the source
path with Helm, Kustomize or kubectl to catch errors a sync would hit.

Common Tasks:
  ` + constants.CLIName + ` validate apps/             # Validate every manifest in a directory
  ` + constants.CLIName + ` validate -v app.yaml       # Include informational diagnostics
  ` + constants.CLIName + ` version                    # Show the version

For detailed help on any command, use:
  ` + constants.CLIName + ` [command] --help`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.CLIName, version)
	},
}

var validateCmd = cli.NewValidateCommand()

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "validation",
		Title: "Validation Commands:",
	})

	validateCmd.GroupID = "validation"

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetVersionTemplate(constants.CLIName + " version {{.Version}}\n")
}

func main() {
	// An interrupt stops new documents from starting; documents in flight finish.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mainLog.Printf("Starting %s %s with args: %v", constants.CLIName, version, os.Args[1:])
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		cli.PrintValidationError(os.Stderr, err)
		os.Exit(1)
	}
}
