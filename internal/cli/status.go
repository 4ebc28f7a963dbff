package cli

import (
	"fmt"
	"strings"

	"github.com/csb-labs/csb/internal/branding"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sandbox state of a project",
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
		st, err := engine.Status(cmd.Context(), root)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		row := func(label, value string) {
			fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-11s", label)), value)
		}
		fmt.Fprintln(out, titleStyle.Render(branding.DisplayName()+" status"))
		row("project", root)
		if !st.Initialized {
			row("state", warningStyle.Render("not initialized"))
			fmt.Fprintln(out, hintStyle.Render("Run: "+branding.CLIName()+" init"))
			return nil
		}

		sel := st.Selection
		servers := append([]string(nil), sel.Servers...)
		servers = append(servers, sel.CustomServers.Names()...)
		row("servers", orDash(strings.Join(servers, ", ")))
		row("env", orDash(strings.Join(st.RequiredEnv, ", ")))
		if !st.HasDockerfile {
			row("dockerfile", warningStyle.Render("missing"))
		}

		switch {
		case !sel.Context.Enabled:
			row("context", "disabled")
		case st.Synced:
			row("context", fmt.Sprintf("%d link(s), global %s, depth %d, %d extra source(s)",
				st.Links, onOff(sel.IncludesGlobal()), sel.Context.Parents.MaxDepth, len(sel.Context.Extra)))
		default:
			row("context", warningStyle.Render("not synced"))
		}

		switch {
		case st.RuntimeErr != nil:
			row("container", warningStyle.Render(st.RuntimeErr.Error()))
		case st.ContainerID != "":
			row("container", successStyle.Render("running ")+shortID(st.ContainerID))
		default:
			row("container", "not running")
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
