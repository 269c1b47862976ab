package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"TempleChat/internal/chatbot"
	"TempleChat/internal/config"
	"TempleChat/internal/schedule"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether temple staff are online now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		week, err := cfg.WeeklySchedule()
		if err != nil {
			return err
		}
		loc, err := schedule.LoadLocation(cfg.Timezone)
		if err != nil {
			return err
		}
		calc, err := schedule.New(week, loc, nil)
		if err != nil {
			return err
		}

		text := chatbot.OfflineText
		if calc.IsOnline() {
			text = chatbot.OnlineText
		}
		now := time.Now().In(loc)
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s %s)\n", text, now.Format("Mon 15:04"), cfg.Timezone)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
