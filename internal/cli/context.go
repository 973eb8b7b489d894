package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-insights/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [description]",
		Short: "Assemble rules and relevant memories for a task",
		Long:  "Collect the rules in scope plus memories matching the description, then greedily pack them into a token budget.",
		Run:   runContext,
	}

	cmd.Flags().StringP("project", "p", "", "Project id (default: $MEMORY_INSIGHTS_PROJECT_ID or config)")
	cmd.Flags().IntP("budget", "b", 4000, "Max tokens in output")
	cmd.Flags().IntP("limit", "l", 50, "Max matching memories considered")

	RootCmd.AddCommand(cmd)
}

func runContext(cmd *cobra.Command, args []string) {
	project, _ := cmd.Flags().GetString("project")
	budget, _ := cmd.Flags().GetInt("budget")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	result, err := s.Context(cmd.Context(), store.ContextParams{
		Query:     strings.Join(args, " "),
		ProjectID: cfg.ResolveProject(project),
		Budget:    budget,
		Limit:     limit,
	})
	if err != nil {
		exitErr("context", err)
	}

	printJSON(cmd, result)
}
