package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-insights/internal/config"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Config file management",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Long:  "Write the default settings to --config (default ~/.memory-insights/config.yaml). --db and --project are recorded when given.",
		Run:   runConfigInit,
	}
	initCmd.Flags().StringP("project", "p", "", "Default project id")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config (file plus environment overrides)",
		Run:   runConfigShow,
	}

	configCmd.AddCommand(initCmd, showCmd)
	RootCmd.AddCommand(configCmd)
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func runConfigInit(cmd *cobra.Command, args []string) {
	project, _ := cmd.Flags().GetString("project")
	force, _ := cmd.Flags().GetBool("force")
	path := resolvedConfigPath()

	if _, err := os.Stat(path); err == nil && !force {
		exitErr("config init", fmt.Errorf("%s already exists (use --force to overwrite)", path))
	}

	c := config.DefaultConfig()
	if dbPath != "" {
		c.DBPath = dbPath
	}
	c.ProjectID = project

	if err := config.Save(path, c); err != nil {
		exitErr("config init", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q}`+"\n", path)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	printJSON(cmd, cfg)
}
