package cli

import (
	"fmt"
	"strings"

	"github.com/csb-labs/csb/internal/branding"
	"github.com/csb-labs/csb/internal/project"
	"github.com/csb-labs/csb/internal/sandbox"
	"github.com/spf13/cobra"
)

var (
	initForce       bool
	initServers     string
	initDockerfile  string
	initWithContext bool
	initNoContext   bool
	initMaxDepth    int
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing .devcontainer/")
	initCmd.Flags().StringVarP(&initServers, "mcp", "m", "", "Comma-separated servers to enable (default from config)")
	initCmd.Flags().StringVarP(&initDockerfile, "dockerfile", "d", "", "Dockerfile to copy instead of the built-in one")
	initCmd.Flags().BoolVar(&initWithContext, "with-context", true, "Include global and ancestor agent context")
	initCmd.Flags().BoolVar(&initNoContext, "no-context", false, "Do not include agent context")
	initCmd.Flags().IntVar(&initMaxDepth, "max-depth", project.DefaultMaxDepth, "Ancestor levels to search for context")
	initCmd.MarkFlagsMutuallyExclusive("with-context", "no-context")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create .devcontainer/ for a project",
	Long: `Create the .devcontainer directory: Dockerfile, devcontainer.json, server
documents, settings overlay and the selection record. With context enabled,
agent context from ancestor directories is staged as well.`,
	Example: `  ` + branding.CLIName() + ` init
  ` + branding.CLIName() + ` init --mcp filesystem,github
  ` + branding.CLIName() + ` init --dockerfile ./Dockerfile.dev --no-context`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			projectDir = args[0]
		}
		root, err := projectRoot()
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}

		opts := sandbox.InitOptions{
			Force:       initForce,
			Dockerfile:  initDockerfile,
			WithContext: initWithContext && !initNoContext,
			MaxDepth:    initMaxDepth,
		}
		if cmd.Flags().Changed("mcp") {
			opts.Servers = splitComma(initServers)
			if opts.Servers == nil {
				opts.Servers = []string{}
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Initializing sandbox in"), root)
		report, err := engine.Init(cmd.Context(), root, opts)
		if err != nil {
			return err
		}
		printWritten(out, report)
		fmt.Fprintln(out, hintStyle.Render("Open the folder in a devcontainer-aware editor or run: devcontainer up --workspace-folder "+root))
		return nil
	},
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
