package cmd

import (
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and trigger background tasks",
	Long:  `View the state of server-side background tasks (like the validity sweep), trigger them manually and read their logs. Requires admin credentials (diploma login).`,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
