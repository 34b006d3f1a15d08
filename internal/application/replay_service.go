package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/bnema/chat-tracker/internal/ports"
)

type ReplaySummary struct {
	Commands    int
	Skipped     int
	Joins       int
	Terminates  int
	Contributes int
	Leaves      int
	// Misses counts calls answered with a sentinel: contribute returning 0,
	// leave returning domain.NotFound, or terminate of an unknown chat.
	Misses int
	// TerminatedContributions sums the totals returned by terminate.
	TerminatedContributions int
	Duration                time.Duration
}

type ReplayService struct {
	tracker   ports.ChatTracker
	inspector ports.TrackerInspector
	clock     ports.Clock
	logger    *slog.Logger
}

// NewReplayService dispatches script commands to tracker. inspector may be
// nil; it is only used to tell terminate of an unknown chat from a chat with
// no contributions.
func NewReplayService(tracker ports.ChatTracker, inspector ports.TrackerInspector, clock ports.Clock, logger *slog.Logger) *ReplayService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &ReplayService{tracker: tracker, inspector: inspector, clock: clock, logger: logger}
}

func (s *ReplayService) Replay(ctx context.Context, source CommandSource, opts ReplayOptions) (summary ReplaySummary, err error) {
	started := s.clock.Now()
	defer func() {
		summary.Duration = s.clock.Now().Sub(started)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		cmd, nextErr := source.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			if opts.Strict || !isSyntaxError(nextErr) {
				return summary, fmt.Errorf("read command: %w", nextErr)
			}
			summary.Skipped++
			s.logger.Warn("skipping script line", "error", nextErr)
			continue
		}

		if err := s.Apply(cmd, &summary, opts.Echo); err != nil {
			if opts.Strict {
				return summary, err
			}
			summary.Skipped++
			s.logger.Warn("skipping script line", "line", cmd.Line, "error", err)
		}
	}

	s.logger.Info("replay finished",
		"commands", summary.Commands,
		"skipped", summary.Skipped,
		"misses", summary.Misses,
	)

	return summary, nil
}

// Apply runs a single command and records it in summary.
func (s *ReplayService) Apply(cmd Command, summary *ReplaySummary, echo func(Command, int)) error {
	var result int
	hasResult := true

	switch cmd.Verb {
	case VerbJoin:
		if cmd.User == "" || cmd.Chat == "" {
			return fmt.Errorf("line %d: join needs a user and a chat: %w", cmd.Line, domain.ErrMalformedCommand)
		}
		s.tracker.Join(cmd.User, cmd.Chat)
		summary.Joins++
		hasResult = false
	case VerbTerminate:
		if cmd.Chat == "" {
			return fmt.Errorf("line %d: terminate needs a chat: %w", cmd.Line, domain.ErrMalformedCommand)
		}
		known := s.chatKnown(cmd.Chat)
		result = s.tracker.Terminate(cmd.Chat)
		summary.Terminates++
		summary.TerminatedContributions += result
		if !known {
			summary.Misses++
		}
	case VerbContribute:
		if cmd.User == "" {
			return fmt.Errorf("line %d: contribute needs a user: %w", cmd.Line, domain.ErrMalformedCommand)
		}
		result = s.tracker.Contribute(cmd.User)
		summary.Contributes++
		if result == 0 {
			summary.Misses++
		}
	case VerbLeave:
		if cmd.User == "" {
			return fmt.Errorf("line %d: leave needs a user: %w", cmd.Line, domain.ErrMalformedCommand)
		}
		if cmd.Chat == "" {
			result = s.tracker.LeaveCurrent(cmd.User)
		} else {
			result = s.tracker.Leave(cmd.User, cmd.Chat)
		}
		summary.Leaves++
		if result == domain.NotFound {
			summary.Misses++
		}
	default:
		return fmt.Errorf("line %d: verb %q: %w", cmd.Line, cmd.Verb, domain.ErrUnknownCommand)
	}

	summary.Commands++
	s.logger.Debug("command applied", "line", cmd.Line, "command", cmd.String(), "result", result)

	if hasResult && echo != nil {
		echo(cmd, result)
	}

	return nil
}

func (s *ReplayService) chatKnown(chat string) bool {
	if s.inspector == nil {
		return true
	}
	_, ok := s.inspector.Chat(chat)
	return ok
}

func isSyntaxError(err error) bool {
	return errors.Is(err, domain.ErrMalformedCommand) || errors.Is(err, domain.ErrUnknownCommand)
}
