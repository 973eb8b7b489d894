package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/memory-insights/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "link <from-id> <to-id>",
		Short: "Create or remove relations between memories",
		Args:  cobra.ExactArgs(2),
		Run:   runLink,
	}

	cmd.Flags().StringP("rel", "r", "", "Relation: relates_to, contradicts, duplicates, supersedes")
	cmd.Flags().Bool("rm", false, "Remove the link")

	cmd.MarkFlagRequired("rel")

	RootCmd.AddCommand(cmd)
}

func runLink(cmd *cobra.Command, args []string) {
	rel, _ := cmd.Flags().GetString("rel")
	rm, _ := cmd.Flags().GetBool("rm")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	link, err := s.Link(cmd.Context(), store.LinkParams{
		FromID: args[0],
		ToID:   args[1],
		Rel:    rel,
		Remove: rm,
	})
	if err != nil {
		exitErr("link", err)
	}

	printJSON(cmd, link)
}
