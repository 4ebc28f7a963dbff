package cli

import (
	"errors"
	"fmt"

	"github.com/csb-labs/csb/internal/artifacts"
	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/userdata"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the host can run the sandbox",
	Long: `Check the devcontainer CLI and container runtime, the agent home, and that
every variable the project's servers need is set in the environment or in
.devcontainer/.env or .env. Values are redacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		problems := userdata.CheckTools(out, []string{"devcontainer", engine.Runtime.Name()})
		fmt.Fprintln(out)
		userdata.CheckAgentHome(out, engine.AgentHome)
		fmt.Fprintln(out)

		st, err := engine.Status(cmd.Context(), root)
		if err != nil && !errors.Is(err, errs.NotInitialized) {
			return err
		}
		if st == nil || !st.Initialized {
			fmt.Fprintln(out, hintStyle.Render("No .devcontainer/ found; skipping the environment check."))
		} else {
			env, err := userdata.LoadEnvFiles(userdata.ProjectEnvFiles(root)...)
			if err != nil {
				return err
			}
			required := append([]string{artifacts.APIKeyEnv}, st.RequiredEnv...)
			problems += userdata.CheckEnv(out, required, env)
			if st.Synced {
				fmt.Fprintln(out)
				if !userdata.CheckSetupScript(out, st.Layout.ScriptPath()) {
					problems++
				}
			}
		}

		fmt.Fprintln(out)
		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		fmt.Fprintln(out, successStyle.Render("All checks passed"))
		return nil
	},
}
