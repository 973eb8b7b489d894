package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Retrieve a memory",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().Bool("links", false, "Include relations to other memories")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	withLinks, _ := cmd.Flags().GetBool("links")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	mem, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}

	if !withLinks {
		printJSON(cmd, mem)
		return
	}

	links, err := s.GetLinks(cmd.Context(), mem.ID)
	if err != nil {
		exitErr("get links", err)
	}
	printJSON(cmd, map[string]interface{}{"memory": mem, "links": links})
}
