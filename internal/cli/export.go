package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export memories as JSON",
		Long:  "Export live memories as a JSON array. Filter by project with -p.",
		Run:   runExport,
	}

	cmd.Flags().StringP("project", "p", "", "Filter by project")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	project, _ := cmd.Flags().GetString("project")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	memories, err := s.ExportAll(cmd.Context(), project)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd, memories)
}
