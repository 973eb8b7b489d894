package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/memory-insights/internal/insights"
	"github.com/rcliao/memory-insights/internal/remediation"
)

func init() {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the actions suggested by the insights report",
		Long: "Rebuild the insights report and apply its actions: archive soft-deletes, merge links the " +
			"duplicate to the kept memory then archives it, relabel sets the proposed tags.",
		Run: runApply,
	}

	addReportFlags(cmd)
	cmd.Flags().String("kinds", "", "Only apply these action kinds (comma-separated: archive, merge, relabel)")
	cmd.Flags().Bool("dry-run", false, "Validate actions without writing")
	cmd.Flags().Bool("record-conflicts", false, "Also link reported conflicts with a contradicts relation")

	RootCmd.AddCommand(cmd)
}

type applyOutput struct {
	DryRun            bool                 `json:"dryRun"`
	Results           []remediation.Result `json:"results"`
	ConflictsRecorded int                  `json:"conflictsRecorded"`
}

func runApply(cmd *cobra.Command, args []string) {
	kindsStr, _ := cmd.Flags().GetString("kinds")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	recordConflicts, _ := cmd.Flags().GetBool("record-conflicts")

	kinds := splitList(kindsStr)
	for _, k := range kinds {
		switch k {
		case insights.ActionArchive, insights.ActionMerge, insights.ActionRelabel:
		default:
			exitErr("apply", fmt.Errorf("unknown action kind %q", k))
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	report, err := buildReport(cmd, s)
	if err != nil {
		exitErr("insights", err)
	}

	applier := remediation.NewApplier(s, remediation.DryRun(dryRun), remediation.WithLogger(logger))
	out := applyOutput{DryRun: dryRun}

	// Conflicts are linked before archiving removes one side of each pair.
	if recordConflicts {
		out.ConflictsRecorded, err = applier.RecordConflicts(cmd.Context(), report.Conflicts.Items)
		if err != nil {
			exitErr("record conflicts", err)
		}
	}

	out.Results = applier.Apply(cmd.Context(), remediation.Filter(report.Actions.All(), kinds))
	logger.Info("actions applied",
		zap.Int("actions", len(out.Results)),
		zap.Bool("dry_run", dryRun))

	printJSON(cmd, out)
}
