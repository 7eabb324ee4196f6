package cmd

import (
	"github.com/clokep/arewetypedyet/core"
	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/spf13/cobra"
)

// projectsCmd lists the configured projects.
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the configured projects.",
	Long: `Show the project table after config file, environment and flags are applied:
branch, initial commit, analyzed paths, excludes and working copy of each project.

Projects are configured under the 'projects' key of .arewetypedyet.yaml:

  projects:
    - name: synapse
      branch: develop
      initial_commit: 4f475c7697722e946e39e42f38f3dd03a95d8765
      paths: [synapse, tests]`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProjects(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list projects", err)
		}
	},
}
