// Package constants holds literals shared across argolint packages: the Argo CD
// resource identity, well-known field values and tool defaults.
package constants

import "time"

// CLIName is the name of the command-line binary.
const CLIName = "argolint"

// ConfigFileName is the config file searched for in the working directory.
const ConfigFileName = ".argolint"

// EnvPrefix prefixes environment variables bound to configuration keys.
const EnvPrefix = "ARGOLINT"

// ApplicationAPIVersion and ApplicationKind identify an Argo CD Application.
const (
	ApplicationAPIVersion = "argoproj.io/v1alpha1"
	ApplicationKind       = "Application"
)

// ResourcesFinalizer makes Argo CD cascade-delete managed resources with the Application.
const ResourcesFinalizer = "resources-finalizer.argocd.argoproj.io"

// CreateNamespaceSyncOption tells Argo CD to create the destination namespace on sync.
const CreateNamespaceSyncOption = "CreateNamespace=true"

// Marker files used for source tool detection, in priority order.
var (
	HelmMarkerFiles      = []string{"Chart.yaml"}
	KustomizeMarkerFiles = []string{"kustomization.yaml", "kustomization.yml", "Kustomization"}
)

// DefaultToolTimeout bounds every external tool invocation.
const DefaultToolTimeout = 5 * time.Minute

// MaxJobs caps --jobs.
const MaxJobs = 64
