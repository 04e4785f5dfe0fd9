package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/tuplegen/internal/manifest"
	"github.com/KaramelBytes/tuplegen/internal/utils"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded generate runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := utils.ExpandHome(effectiveConfig().RunsDir)
		if err != nil {
			return err
		}
		runs, err := manifest.List(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded yet.")
			return nil
		}
		for _, m := range runs {
			fmt.Fprintf(out, "%s  %-11s  seed=%-6d  rows=%s  %s\n",
				m.ID, m.Kind, m.Seed, formatRows(m.Rows), m.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the manifest of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := utils.ExpandHome(effectiveConfig().RunsDir)
		if err != nil {
			return err
		}
		m, err := manifest.Load(dir, args[0])
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(m)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func formatRows(rows map[string]int) string {
	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%d", name, rows[name])
	}
	return strings.Join(parts, ",")
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd)
}
