package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/csb-labs/csb/internal/errs"
	"github.com/csb-labs/csb/internal/mcp"
	"github.com/csb-labs/csb/internal/project"
	"github.com/spf13/cobra"
)

var (
	customCommand string
	customArgs    string
	customEnv     string
)

func init() {
	mcpAddCustomCmd.Flags().StringVarP(&customCommand, "command", "c", "", "Command that starts the server")
	mcpAddCustomCmd.Flags().StringVarP(&customArgs, "args", "a", "", "Comma-separated arguments")
	mcpAddCustomCmd.Flags().StringVarP(&customEnv, "env", "e", "", "Comma-separated required environment variables")
	mcpAddCustomCmd.MarkFlagRequired("command")

	mcpCmd.AddCommand(mcpAddCmd)
	mcpCmd.AddCommand(mcpAddCustomCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)
	mcpCmd.AddCommand(mcpListCmd)
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage the project's tool servers",
}

var mcpAddCmd = &cobra.Command{
	Use:   "add <server>",
	Short: "Enable a built-in server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, added, err := engine.AddServer(cmd.Context(), root, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !added {
			fmt.Fprintf(out, "%s is already enabled\n", args[0])
			return nil
		}
		fmt.Fprintf(out, "%s %s\n", successStyle.Render("Enabled"), args[0])
		printWritten(out, report)
		printEnvHint(cmd, args[0])
		return nil
	},
}

var mcpAddCustomCmd = &cobra.Command{
	Use:   "add-custom <name>",
	Short: "Define a custom server for this project",
	Example: `  csb mcp add-custom myserver -c npx -a "-y,my-mcp-server"
  csb mcp add-custom db -c node -a server.js -e DB_URL,DB_PASSWORD`,
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
		report, err := engine.AddCustomServer(cmd.Context(), root, args[0], customCommand, splitComma(customArgs), splitComma(customEnv))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s custom server %s\n", successStyle.Render("Added"), args[0])
		printWritten(out, report)
		if env := splitComma(customEnv); len(env) > 0 {
			fmt.Fprintln(out, hintStyle.Render("Set on the host: "+strings.Join(env, ", ")))
		}
		return nil
	},
}

var mcpRemoveCmd = &cobra.Command{
	Use:     "remove <server>",
	Aliases: []string{"rm"},
	Short:   "Remove a built-in or custom server",
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
		report, err := engine.RemoveServer(cmd.Context(), root, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("Removed"), args[0])
		printWritten(cmd.OutOrStdout(), report)
		return nil
	},
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and configured servers",
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
		sel, err := engine.Selection(root)
		if err != nil && !errors.Is(err, errs.NotInitialized) {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Built-in servers"))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTATUS\tDESCRIPTION\tREQUIRED ENV")
		for _, name := range mcp.BuiltinNames() {
			def, _ := mcp.Builtin(name)
			status := "available"
			if sel != nil && sel.HasBuiltin(name) {
				status = "enabled"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, status, def.Description, orDash(strings.Join(def.RequiredEnv, ", ")))
		}
		w.Flush()

		if sel == nil {
			fmt.Fprintln(out, hintStyle.Render("No .devcontainer/ found. Run: csb init"))
			return nil
		}
		if sel.CustomServers.Len() > 0 {
			printCustomServers(cmd, sel)
		}
		return nil
	},
}

func printCustomServers(cmd *cobra.Command, sel *project.Selection) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render("Custom servers"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOMMAND\tREQUIRED ENV")
	for _, name := range sel.CustomServers.Names() {
		def, _ := sel.CustomServers.Get(name)
		command := strings.TrimSpace(def.Command + " " + strings.Join(def.Args, " "))
		if def.URL != "" {
			command = def.URL
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, command, orDash(strings.Join(def.RequiredEnv, ", ")))
	}
	w.Flush()
}

func printEnvHint(cmd *cobra.Command, name string) {
	def, ok := mcp.Builtin(name)
	if !ok || len(def.RequiredEnv) == 0 {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), hintStyle.Render("Set on the host: "+strings.Join(def.RequiredEnv, ", ")))
}
