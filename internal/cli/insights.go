package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/memory-insights/internal/insights"
	"github.com/rcliao/memory-insights/internal/model"
	"github.com/rcliao/memory-insights/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Analyze memories for stale rules, conflicts, duplicates and weekly trends",
		Long: "Build an insights report from every live memory (global plus the project when one is set). " +
			"The report also lists suggested archive, merge and relabel actions.",
		Run: runInsights,
	}

	addReportFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("project", "p", "", "Project id (default: $MEMORY_INSIGHTS_PROJECT_ID or config)")
	cmd.Flags().Int("stale-days", 0, "Rule age in days before it is stale (default: config, 45)")
	cmd.Flags().Int("window-days", 0, "Weekly summary window in days (default: config, 7)")
	cmd.Flags().String("now", "", "Reference time as RFC3339 (default: current time)")
}

func runInsights(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	report, err := buildReport(cmd, s)
	if err != nil {
		exitErr("insights", err)
	}
	printJSON(cmd, report)
}

// reportOptions resolves engine options from flags with config fallbacks.
func reportOptions(cmd *cobra.Command) (insights.Options, error) {
	staleDays, _ := cmd.Flags().GetInt("stale-days")
	windowDays, _ := cmd.Flags().GetInt("window-days")
	nowStr, _ := cmd.Flags().GetString("now")

	if staleDays < 0 || windowDays < 0 {
		return insights.Options{}, fmt.Errorf("--stale-days and --window-days must be positive")
	}
	opts := insights.Options{
		Now:              time.Now().UTC(),
		StaleRuleDays:    cfg.Insights.StaleRuleDays,
		WeeklyWindowDays: cfg.Insights.WeeklyWindowDays,
	}
	if staleDays > 0 {
		opts.StaleRuleDays = staleDays
	}
	if windowDays > 0 {
		opts.WeeklyWindowDays = windowDays
	}
	if nowStr != "" {
		t, err := time.Parse(time.RFC3339, nowStr)
		if err != nil {
			return opts, fmt.Errorf("parse --now: %w", err)
		}
		opts.Now = t
	}
	return opts, nil
}

func buildReport(cmd *cobra.Command, s *store.SQLiteStore) (*insights.MemoryInsights, error) {
	opts, err := reportOptions(cmd)
	if err != nil {
		return nil, err
	}
	project, _ := cmd.Flags().GetString("project")
	project = cfg.ResolveProject(project)

	memories, err := snapshot(cmd.Context(), s, project)
	if err != nil {
		return nil, err
	}

	logger.Debug("building insights",
		zap.String("project", project),
		zap.Int("memories", len(memories)),
		zap.Time("now", opts.Now))

	engine := insights.NewEngine(insights.WithLogger(logger))
	return engine.Build(memories, opts), nil
}

func snapshot(ctx context.Context, s store.Store, project string) ([]model.Memory, error) {
	memories, err := s.Snapshot(ctx, store.SnapshotParams{ProjectID: project})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return memories, nil
}
