package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bnema/chat-tracker/internal/adapters/metrics"
	reportrender "github.com/bnema/chat-tracker/internal/adapters/render/report"
	tomlreport "github.com/bnema/chat-tracker/internal/adapters/report/toml"
	"github.com/bnema/chat-tracker/internal/adapters/script"
	"github.com/bnema/chat-tracker/internal/application"
	"github.com/bnema/chat-tracker/internal/config"
	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const stdinScript = "-"

type replayFlags struct {
	echo     bool
	metrics  bool
	users    bool
	limit    int
	out      string
	chat     string
	user     string
	noStatus bool
}

func newReplayCmd(settings *viper.Viper) *cobra.Command {
	var flags replayFlags

	cmd := &cobra.Command{
		Use:   "replay [script|-]",
		Short: "Replay a command script against a fresh tracker",
		Long: `Replay reads one command per line and applies it to an empty tracker:

  j <user> <chat>    join chat, making it the user's current chat
  c <user>           contribute to the user's current chat
  l <user> [chat]    leave chat, or the current chat when omitted
  t <chat>           terminate chat and print its total

Blank lines and lines starting with # are ignored. The script is read from
stdin when no path or "-" is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.chat != "" && flags.user != "" {
				return fmt.Errorf("--chat and --user are mutually exclusive")
			}

			cfg, err := config.Load(settings)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			app, err := wireApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			path := stdinScript
			if len(args) == 1 {
				path = args[0]
			}

			return runReplay(cmd, app, path, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.echo, "echo", false, "print the result of every command that returns one")
	cmd.Flags().BoolVar(&flags.metrics, "metrics", false, "write operation counters to stderr in Prometheus text format")
	cmd.Flags().BoolVar(&flags.users, "users", false, "include users and their memberships in the text report")
	cmd.Flags().IntVar(&flags.limit, "limit", 20, "maximum chats and users listed in the text report, 0 for all")
	cmd.Flags().StringVar(&flags.out, "out", "", "also write the full report as TOML to this path")
	cmd.Flags().StringVar(&flags.chat, "chat", "", "report only this chat")
	cmd.Flags().StringVar(&flags.user, "user", "", "report only this user")
	cmd.Flags().BoolVar(&flags.noStatus, "no-status", false, "disable the progress spinner")

	return cmd
}

func runReplay(cmd *cobra.Command, app *app, path string, flags replayFlags) error {
	source, closeSource, err := openScript(cmd, path)
	if err != nil {
		return err
	}
	defer closeSource()

	opts := application.ReplayOptions{Strict: app.config.Strict}
	if flags.echo {
		out := cmd.OutOrStdout()
		opts.Echo = func(c application.Command, result int) {
			_, _ = fmt.Fprintf(out, "%s %d\n", c, result)
		}
	}

	var summary application.ReplaySummary
	replay := func(ctx context.Context) error {
		var replayErr error
		summary, replayErr = app.replayService.Replay(ctx, script.NewParser(source), opts)
		return replayErr
	}

	if shouldShowSpinner(cmd.ErrOrStderr(), app.config.Format, flags) {
		err = runReplaySpinner(cmd.Context(), cmd.ErrOrStderr(), replay)
	} else {
		err = replay(contextOrBackground(cmd.Context()))
	}
	if err != nil {
		if script.IsSyntaxError(err) {
			return fmt.Errorf("replay %s: %w (use --strict=false to skip malformed lines)", path, err)
		}
		return fmt.Errorf("replay %s: %w", path, err)
	}

	report := app.reportService.Build(summary)

	if flags.out != "" {
		if err := tomlreport.WriteFile(flags.out, report); err != nil {
			return err
		}
		app.logger.Info("report written", "path", flags.out)
	}

	renderOpts := reportrender.RenderOptions{
		MaxChats:  flags.limit,
		MaxUsers:  flags.limit,
		ShowUsers: flags.users,
	}

	report, renderOpts, err = focusReport(app, report, renderOpts, flags)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), app, report, renderOpts); err != nil {
		return err
	}

	if flags.metrics {
		return metrics.WriteText(cmd.ErrOrStderr(), app.registry)
	}

	return nil
}

func openScript(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == stdinScript {
		return cmd.InOrStdin(), func() {}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}

// focusReport narrows report to a single chat or user when requested.
func focusReport(app *app, report application.Report, opts reportrender.RenderOptions, flags replayFlags) (application.Report, reportrender.RenderOptions, error) {
	switch {
	case flags.chat != "":
		chat, err := app.reportService.Chat(flags.chat)
		if err != nil {
			return report, opts, err
		}
		report.Chats = []domain.ChatState{chat}
		report.Users = nil
		opts.ShowUsers = false
	case flags.user != "":
		user, err := app.reportService.User(flags.user)
		if err != nil {
			return report, opts, err
		}
		report.Chats = chatsOf(app, user)
		report.Users = []domain.UserState{user}
		opts.ShowUsers = true
	}

	return report, opts, nil
}

func chatsOf(app *app, user domain.UserState) []domain.ChatState {
	chats := make([]domain.ChatState, 0, len(user.Chats))
	for _, membership := range user.Chats {
		if chat, err := app.reportService.Chat(membership.Chat); err == nil {
			chats = append(chats, chat)
		}
	}
	return chats
}

func writeReport(w io.Writer, app *app, report application.Report, opts reportrender.RenderOptions) error {
	switch app.config.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case config.FormatTOML:
		return tomlreport.Write(w, report)
	default:
		rendered, err := app.reportRenderer(report, opts)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		_, err = fmt.Fprintln(w, rendered)
		return err
	}
}

func shouldShowSpinner(stderr io.Writer, format config.Format, flags replayFlags) bool {
	if flags.noStatus || flags.echo || format != config.FormatText {
		return false
	}

	file, ok := stderr.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
