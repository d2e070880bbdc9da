package cmd

import (
	"errors"
	"fmt"

	"github.com/josephlewis42/liteshell/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var errNoEventLog = errors.New("event_log isn't set in the configuration")

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell event log.",
}

// readEvents feeds every logged event to handler.
func readEvents(handler func(*logger.LogEntry)) error {
	configuration, err := loadConfig()
	if err != nil {
		return err
	}
	if !configuration.EventLogEnabled() {
		return errNoEventLog
	}

	fd, err := configuration.ReadEventLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	return logger.ReadJSONLinesLog(fd, handler)
}

func printYAML(cmd *cobra.Command, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		report := logger.NewReport()
		if err := readEvents(report.Update); err != nil {
			return err
		}

		return printYAML(cmd, report)
	},
}

var sessionsCommand = &cobra.Command{
	Use:   "sessions",
	Short: "Show the commands of each session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var report logger.SessionReport
		if err := readEvents(report.Update); err != nil {
			return err
		}

		return printYAML(cmd, &report)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(sessionsCommand)
}
