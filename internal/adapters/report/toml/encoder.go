package toml

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/chat-tracker/internal/application"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	reportFileMode  = 0o644
	reportDirMode   = 0o755
	tempFilePattern = ".report-*.toml.tmp"
)

func Encode(report application.Report) ([]byte, error) {
	file := toSchema(report)
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	return data, nil
}

func Write(w io.Writer, report application.Report) error {
	data, err := Encode(report)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// WriteFile replaces path with the encoded report through a temp file and a
// rename, so readers never see a partial report.
func WriteFile(path string, report application.Report) error {
	data, err := Encode(report)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, reportDirMode); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp report file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp report file: %w", err)
	}

	if err := tempFile.Chmod(reportFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp report file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp report file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace report file: %w", err)
	}

	cleanup = false

	return nil
}

func toSchema(report application.Report) fileSchema {
	file := fileSchema{
		Version:     currentSchemaVersion,
		GeneratedAt: formatTime(report.GeneratedAt),
		Tracker: trackerSchema{
			Buckets:            report.Stats.BucketCount,
			Users:              report.Stats.Users,
			Chats:              report.Stats.Chats,
			ActiveMemberships:  report.Stats.ActiveMemberships,
			LongestUserChain:   report.Stats.LongestUserChain,
			LongestChatChain:   report.Stats.LongestChatChain,
			TotalContributions: report.TotalContributions(),
		},
		Replay: replaySchema{
			Commands:                report.Summary.Commands,
			Skipped:                 report.Summary.Skipped,
			Joins:                   report.Summary.Joins,
			Terminates:              report.Summary.Terminates,
			Contributes:             report.Summary.Contributes,
			Leaves:                  report.Summary.Leaves,
			Misses:                  report.Summary.Misses,
			TerminatedContributions: report.Summary.TerminatedContributions,
			Duration:                report.Summary.Duration.String(),
		},
		Chats: make([]chatSchema, 0, len(report.Chats)),
		Users: make([]userSchema, 0, len(report.Users)),
	}

	for _, chat := range report.Chats {
		members := chat.Members
		if members == nil {
			members = []string{}
		}
		file.Chats = append(file.Chats, chatSchema{Name: chat.Name, Total: chat.Total, Members: members})
	}

	for _, user := range report.Users {
		entry := userSchema{Name: user.Name}
		if current, ok := user.CurrentChat(); ok {
			entry.Current = current
		}
		for _, m := range user.Chats {
			entry.Chats = append(entry.Chats, membershipSchema{Chat: m.Chat, Count: m.Count})
		}
		file.Users = append(file.Users, entry)
	}

	return file
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
