package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Regenerate .devcontainer/ from the selection record",
	Long: `Regenerate devcontainer.json, the server documents and the settings overlay
from .devcontainer/csb.yaml. The Dockerfile is never touched; use
"init --force" to replace it.`,
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
		report, err := engine.Update(cmd.Context(), root)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Updated sandbox configuration"))
		printWritten(cmd.OutOrStdout(), report)
		return nil
	},
}
