package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/githubnext/argolint/pkg/config"
	"github.com/githubnext/argolint/pkg/constants"
	"github.com/githubnext/argolint/pkg/logger"
)

var validateLog = logger.New("cli:validate_command")

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate Argo CD Application manifests",
		Long: `Validate Argo CD Application manifests before they reach a cluster.

Each document is checked for the fields Argo CD needs. Its source repository is
cloned into a local cache, the target revision is checked out, and the source
path is rendered (Helm, Kustomize or plain manifests) and validated with
kubectl apply --dry-run.

Documents that are not Argo CD Applications are reported and skipped. Use - to
read from standard input; directories are expanded to the YAML files they
contain (*.yaml and *.yml).

Examples:
  ` + constants.CLIName + ` validate apps/web.yaml                 # Validate one file
  ` + constants.CLIName + ` validate apps/                         # Validate every manifest in a directory
  kustomize build envs/prod | ` + constants.CLIName + ` validate -  # Validate a rendered stream
  ` + constants.CLIName + ` validate --jobs 4 apps/                # Validate repositories in parallel
  ` + constants.CLIName + ` validate --output json apps/           # Emit JSON lines
  ` + constants.CLIName + ` validate --dry-run server apps/        # Server-side dry-run
  ` + constants.CLIName + ` validate --strict apps/                # Fail on warnings too`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			strict, _ := cmd.Flags().GetBool("strict")
			verbose, _ := cmd.Flags().GetBool("verbose")

			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}

			validateLog.Printf("Running validate command: inputs=%v, jobs=%d, format=%s, strict=%v",
				args, cfg.Jobs, cfg.Output.Format, strict)

			_, err = RunValidate(cmd.Context(), ValidateOptions{
				Inputs:  args,
				Config:  cfg,
				Strict:  strict,
				Verbose: verbose,
				Stdin:   cmd.InOrStdin(),
				Stdout:  cmd.OutOrStdout(),
				Stderr:  os.Stderr,
			})
			return err
		},
	}

	cmd.Flags().StringP("config", "c", "", "Config file (default: ./.argolint.yaml)")
	cmd.Flags().IntP("jobs", "j", 1, "Number of repositories validated in parallel")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	cmd.Flags().Bool("strict", false, "Treat warnings as failures")
	cmd.Flags().BoolP("verbose", "v", false, "Show informational diagnostics")
	cmd.Flags().String("cache-dir", "", "Repository cache directory")
	cmd.Flags().String("dry-run", "client", "kubectl dry-run mode: client or server")
	cmd.Flags().String("kube-context", "", "kubeconfig context used for the dry-run")
	cmd.Flags().Duration("timeout", constants.DefaultToolTimeout, "Time limit for each git, helm or kubectl invocation")

	return cmd
}
