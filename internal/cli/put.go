package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-insights/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put [content]",
		Short: "Store a memory",
		Long:  "Store a memory. Content can be a positional arg or piped via stdin.",
		Run:   runPut,
	}

	cmd.Flags().String("type", "note", "Type: rule, decision, fact, note, skill")
	cmd.Flags().String("scope", "", "Scope: global or project (default: project when --project is set)")
	cmd.Flags().StringP("project", "p", "", "Project id (default: $MEMORY_INSIGHTS_PROJECT_ID or config)")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().Bool("global", false, "Store as a global memory even when a project is configured")

	RootCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	typ, _ := cmd.Flags().GetString("type")
	scope, _ := cmd.Flags().GetString("scope")
	project, _ := cmd.Flags().GetString("project")
	tagsStr, _ := cmd.Flags().GetString("tags")
	global, _ := cmd.Flags().GetBool("global")

	// Get content: positional arg first, then check stdin
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	if strings.TrimSpace(content) == "" {
		exitErr("put", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	projectID := cfg.ResolveProject(project)
	if global {
		projectID = ""
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	mem, err := s.Put(cmd.Context(), store.PutParams{
		Content:   content,
		Type:      typ,
		Scope:     scope,
		ProjectID: projectID,
		Tags:      splitList(tagsStr),
	})
	if err != nil {
		exitErr("put", err)
	}

	printJSON(cmd, mem)
}
