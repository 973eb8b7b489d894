package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tag <id> <tags>",
		Short: "Replace the tags of a memory",
		Long:  "Replace the tags of a memory with a comma-separated list. An empty list clears them.",
		Args:  cobra.RangeArgs(1, 2),
		Run:   runTag,
	}

	RootCmd.AddCommand(cmd)
}

func runTag(cmd *cobra.Command, args []string) {
	var tags []string
	if len(args) == 2 {
		tags = splitList(args[1])
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	mem, err := s.SetTags(cmd.Context(), args[0], tags)
	if err != nil {
		exitErr("tag", err)
	}
	printJSON(cmd, mem)
}
