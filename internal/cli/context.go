package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextSyncCmd)
	contextCmd.AddCommand(contextRefreshCmd)
	contextCmd.AddCommand(contextAddCmd)
	contextCmd.AddCommand(contextRemoveCmd)
	rootCmd.AddCommand(contextCmd)
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage agent context staged into the sandbox",
	Long: `Context is agent instructions (CLAUDE.md), skills, agents, commands and
rules found in ancestor directories of the project and in extra sources. It
is copied into .devcontainer/claude-context and linked into the agent home
inside the container by a generated setup script.`,
}

var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show context configuration and staged links",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		listing, err := engine.ListContext(root)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		c := listing.Selection.Context
		fmt.Fprintln(out, titleStyle.Render("Context configuration"))
		fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("enabled:"), onOff(c.Enabled))
		fmt.Fprintf(out, "  %s %s (%s)\n", labelStyle.Render("global:"), onOff(c.Global.Include), strings.Join(c.Global.Components, ", "))
		fmt.Fprintf(out, "  %s %s, max depth %d\n", labelStyle.Render("parents:"), onOff(c.Parents.AutoDiscover), c.Parents.MaxDepth)
		fmt.Fprintf(out, "  %s\n", labelStyle.Render("extra sources:"))
		if len(c.Extra) == 0 {
			fmt.Fprintln(out, "    -")
		}
		for _, p := range c.Extra {
			fmt.Fprintf(out, "    %s\n", p)
		}

		fmt.Fprintln(out)
		if listing.Manifest == nil {
			fmt.Fprintln(out, hintStyle.Render("Nothing staged yet. Run: csb context sync"))
			return nil
		}
		fmt.Fprintln(out, titleStyle.Render("Staged links"))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LINK\tORIGIN\tSOURCE")
		for _, l := range listing.Manifest.Links {
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.Link, l.Origin, l.Source)
		}
		return w.Flush()
	},
}

var contextSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-stage context from all sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, err := engine.Sync(cmd.Context(), root)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Synced context"))
		printWritten(cmd.OutOrStdout(), report)
		return nil
	},
}

var contextRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Sync context and relink it in the running container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, err := engine.Refresh(cmd.Context(), root)
		out := cmd.OutOrStdout()
		if report != nil {
			fmt.Fprintln(out, titleStyle.Render("Synced context"))
			printWritten(out, report.Report)
			if report.Output != "" {
				fmt.Fprint(out, report.Output)
			}
		}
		if err != nil {
			return err
		}
		if !report.Running() {
			fmt.Fprintln(out, hintStyle.Render("No running container; links are applied on next start."))
			return nil
		}
		fmt.Fprintf(out, "%s in container %s\n", successStyle.Render("Relinked"), shortID(report.ContainerID))
		return nil
	},
}

var contextAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Add an extra context source",
	Long: `Add a file, a skills/agents/commands/rules directory, or a directory
holding CLAUDE.md or .claude/ as an extra context source, then sync.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, added, err := engine.AddSource(cmd.Context(), root, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if added {
			fmt.Fprintf(out, "%s %s\n", successStyle.Render("Added"), args[0])
		} else {
			fmt.Fprintf(out, "%s is already a source\n", args[0])
		}
		printWritten(out, report)
		return nil
	},
}

var contextRemoveCmd = &cobra.Command{
	Use:     "remove <path>",
	Aliases: []string{"rm"},
	Short:   "Remove an extra context source",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, err := engine.RemoveSource(cmd.Context(), root, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("Removed"), args[0])
		printWritten(cmd.OutOrStdout(), report)
		return nil
	},
}
