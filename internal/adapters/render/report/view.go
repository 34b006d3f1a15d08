package report

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/bnema/chat-tracker/internal/application"
	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const shareBarWidth = 24

type RenderOptions struct {
	// MaxChats caps the chats listed; zero lists all of them.
	MaxChats int
	// MaxUsers caps the users listed when ShowUsers is set; zero lists all.
	MaxUsers  int
	ShowUsers bool
}

func renderView(report application.Report, opts RenderOptions, s styles) string {
	total := report.TotalContributions()
	lines := []string{
		s.title.Render("Chat Tracker"),
		s.header.Render(fmt.Sprintf(
			"buckets: %d  users: %d  chats: %d  contributions: %d",
			report.Stats.BucketCount, report.Stats.Users, report.Stats.Chats, total,
		)),
		s.detail.Render(replayLine(report.Summary)),
	}

	if report.Summary.Skipped > 0 {
		lines = append(lines, s.warning.Render(fmt.Sprintf("skipped %d malformed lines", report.Summary.Skipped)))
	}

	if report.Stats.Users > 0 || report.Stats.Chats > 0 {
		lines = append(lines, s.header.Render(fmt.Sprintf(
			"longest chain: users %d, chats %d  memberships: %d",
			report.Stats.LongestUserChain, report.Stats.LongestChatChain, report.Stats.ActiveMemberships,
		)))
	}

	if len(report.Chats) == 0 {
		lines = append(lines, s.section.Render(s.empty.Render("No active chats.")))
	} else {
		chats := byTotal(report.Chats)
		shown := limit(len(chats), opts.MaxChats)
		for _, chat := range chats[:shown] {
			lines = append(lines, s.section.Render(renderChat(chat, total, s)))
		}
		if rest := len(chats) - shown; rest > 0 {
			lines = append(lines, s.empty.Render(fmt.Sprintf("... and %d more chats", rest)))
		}
	}

	if opts.ShowUsers {
		lines = append(lines, s.section.Render(renderUsers(report.Users, opts.MaxUsers, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func replayLine(summary application.ReplaySummary) string {
	line := fmt.Sprintf(
		"replay: %d commands (%d joins, %d contributes, %d leaves, %d terminates), %d misses",
		summary.Commands, summary.Joins, summary.Contributes, summary.Leaves, summary.Terminates, summary.Misses,
	)
	if summary.Duration > 0 {
		line += fmt.Sprintf(" in %s", summary.Duration)
	}
	return line
}

func renderChat(chat domain.ChatState, grandTotal int, s styles) string {
	percent := sharePercent(chat.Total, grandTotal)
	shareColor := interpolateColor(percent, 0, 100)
	share := lipgloss.NewStyle().Foreground(shareColor).Render(fmt.Sprintf("%3.0f%% of contributions", percent))

	bar := lipgloss.JoinHorizontal(
		lipgloss.Top,
		renderShareBar(percent, shareBarWidth, s),
		" ",
		share,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.chat.Render(fmt.Sprintf("%s (%d)", chat.Name, chat.Total)),
		bar,
		s.detail.Render("members: "+memberList(chat.Members)),
	)
}

func renderUsers(users []domain.UserState, maxUsers int, s styles) string {
	if len(users) == 0 {
		return s.empty.Render("No users.")
	}

	shown := limit(len(users), maxUsers)
	lines := make([]string, 0, shown+2)
	lines = append(lines, s.title.Render("Users"))
	for _, user := range users[:shown] {
		lines = append(lines, userLine(user, s))
	}
	if rest := len(users) - shown; rest > 0 {
		lines = append(lines, s.empty.Render(fmt.Sprintf("... and %d more users", rest)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func userLine(user domain.UserState, s styles) string {
	if len(user.Chats) == 0 {
		return s.empty.Render(user.Name + ": idle")
	}

	parts := make([]string, 0, len(user.Chats))
	for i, m := range user.Chats {
		part := fmt.Sprintf("%s %d", m.Chat, m.Count)
		if i == 0 {
			part += " (current)"
		}
		parts = append(parts, part)
	}

	return s.user.Render(user.Name + ": " + strings.Join(parts, ", "))
}

func memberList(members []string) string {
	if len(members) == 0 {
		return "none"
	}
	return strings.Join(members, ", ")
}

// byTotal orders chats by total, largest first, then by name.
func byTotal(chats []domain.ChatState) []domain.ChatState {
	sorted := slices.Clone(chats)
	slices.SortStableFunc(sorted, func(a, b domain.ChatState) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return sorted
}

func limit(n, capacity int) int {
	if capacity <= 0 || capacity > n {
		return n
	}
	return capacity
}

func sharePercent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return clampPercent(float64(part) * 100 / float64(whole))
}

func renderShareBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	filled = min(max(filled, 0), width)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, lo, hi float64) lipgloss.Color {
	if hi == lo {
		return lipgloss.Color("255")
	}

	normalized := (value - lo) / (hi - lo)
	normalized = min(max(normalized, 0), 1)

	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
