package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"TempleChat/internal/chatbot"
	"TempleChat/internal/journal"
)

var (
	cfgFile     string
	feedBase    string
	debug       bool
	topic       string
	chooseTopic bool
)

var rootCmd = &cobra.Command{
	Use:   "templechat",
	Short: "Chat with Myogyoji Temple from the terminal",
	Long: `templechat runs the temple website's chat panel in a terminal: ask a
question, see whether staff are online, or request a call back. Every action
goes to the single feed endpoint configured as feed_base.`,
	SilenceUsage: true,
	RunE:         runChat,
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "templechat.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&feedBase, "feed-base", "", "feed endpoint base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.Flags().StringVar(&topic, "topic", "", "initial topic (name or number)")
	rootCmd.Flags().BoolVar(&chooseTopic, "choose-topic", false, "pick the topic interactively before chatting")
}

func runChat(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	var store chatbot.JournalStore
	j, err := journal.Open(rt.cfg.JournalPath)
	if err != nil {
		rt.logger.Warn("failed to open dispatch journal, continuing without it", "error", err)
	} else {
		defer j.Close()
		store = j
	}

	opts := chatbot.Options{
		Config:  rt.cfg,
		Journal: store,
		Logger:  rt.logger,
		Meter:   rt.meter,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
	if rt.client != nil {
		opts.Client = rt.client
	}
	bot, err := chatbot.NewChatBot(opts)
	if errors.Is(err, chatbot.ErrDisabled) {
		fmt.Fprintln(os.Stderr, "Chat is disabled: set feed_base in the config or TEMPLECHAT_FEED_BASE.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to initialize chatbot: %w", err)
	}

	if topic != "" {
		if err := bot.SelectTopic(topic); err != nil {
			return err
		}
	}
	if chooseTopic {
		if err := bot.ChooseTopic(); err != nil {
			return err
		}
	}

	return bot.Run(cmd.Context())
}
