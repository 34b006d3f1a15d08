package application

import (
	"fmt"
	"time"

	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/bnema/chat-tracker/internal/ports"
)

type Report struct {
	GeneratedAt time.Time
	Stats       domain.Stats
	Summary     ReplaySummary
	Chats       []domain.ChatState
	Users       []domain.UserState
}

func (r Report) TotalContributions() int {
	return domain.Snapshot{Chats: r.Chats}.TotalContributions()
}

type ReportService struct {
	inspector ports.TrackerInspector
	clock     ports.Clock
}

func NewReportService(inspector ports.TrackerInspector, clock ports.Clock) *ReportService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ReportService{inspector: inspector, clock: clock}
}

func (s *ReportService) Build(summary ReplaySummary) Report {
	snapshot := s.inspector.Snapshot()

	return Report{
		GeneratedAt: s.clock.Now(),
		Stats:       s.inspector.Stats(),
		Summary:     summary,
		Chats:       snapshot.Chats,
		Users:       snapshot.Users,
	}
}

func (s *ReportService) Chat(name string) (domain.ChatState, error) {
	chat, ok := s.inspector.Chat(name)
	if !ok {
		return domain.ChatState{}, fmt.Errorf("chat %q: %w", name, domain.ErrChatNotFound)
	}

	return chat, nil
}

func (s *ReportService) User(name string) (domain.UserState, error) {
	user, ok := s.inspector.User(name)
	if !ok {
		return domain.UserState{}, fmt.Errorf("user %q: %w", name, domain.ErrUserNotFound)
	}

	return user, nil
}
