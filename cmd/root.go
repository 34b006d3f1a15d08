package cmd

import (
	"fmt"

	"github.com/bnema/chat-tracker/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chattracker",
		Short:         "Chat Tracker: replay chat membership and contribution scripts",
		Long:          "chattracker replays scripts of join, contribute, leave and terminate commands against an in-memory tracker and reports per-chat totals, memberships and bucket spread.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	settings := viper.New()
	if err := bindPersistentFlags(rootCmd, settings); err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newReplayCmd(settings),
	)

	return rootCmd
}

func bindPersistentFlags(rootCmd *cobra.Command, settings *viper.Viper) error {
	flags := rootCmd.PersistentFlags()
	flags.Int("buckets", config.DefaultBuckets, "fixed bucket count for the user and chat indexes")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Bool("log-json", false, "write log records as JSON")
	flags.Bool("strict", true, "abort on the first malformed script line")
	flags.String("format", string(config.FormatText), "report format: text, json or toml")

	bindings := []struct {
		key  string
		flag string
	}{
		{key: config.KeyBuckets, flag: "buckets"},
		{key: config.KeyLogLevel, flag: "log-level"},
		{key: config.KeyLogJSON, flag: "log-json"},
		{key: config.KeyReplayStrict, flag: "strict"},
		{key: config.KeyReportFormat, flag: "format"},
	}

	for _, binding := range bindings {
		if err := settings.BindPFlag(binding.key, flags.Lookup(binding.flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", binding.flag, err)
		}
	}

	return nil
}
