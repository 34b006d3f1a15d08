package ports

import "github.com/bnema/chat-tracker/internal/domain"

// ChatTracker is the join/leave/contribute/terminate surface. Lookups that
// find nothing return 0 or domain.NotFound rather than an error.
type ChatTracker interface {
	Join(user, chat string)
	Terminate(chat string) int
	Contribute(user string) int
	Leave(user, chat string) int
	LeaveCurrent(user string) int
}

type TrackerInspector interface {
	Chat(name string) (domain.ChatState, bool)
	User(name string) (domain.UserState, bool)
	Snapshot() domain.Snapshot
	Stats() domain.Stats
}
