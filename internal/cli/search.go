package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-insights/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memories by keyword",
		Long:  "Search memory content and tags for matching text. Global memories are included when a project is set.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("project", "p", "", "Project id (default: $MEMORY_INSIGHTS_PROJECT_ID or config)")
	cmd.Flags().String("type", "", "Filter by type")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	project, _ := cmd.Flags().GetString("project")
	typ, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query:     strings.Join(args, " "),
		Type:      typ,
		ProjectID: cfg.ResolveProject(project),
		Limit:     limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	printJSON(cmd, results)
}
