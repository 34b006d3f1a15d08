package tracker

import (
	"slices"
	"strings"

	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/bnema/chat-tracker/internal/ports"
)

var _ ports.TrackerInspector = (*Tracker)(nil)

// Chat reports a tracked chat. Unlike Terminate it tells an unknown chat apart
// from one with no contributions.
func (t *Tracker) Chat(name string) (domain.ChatState, bool) {
	total := t.totals.Find(name)
	if total == nil {
		return domain.ChatState{}, false
	}

	state := domain.ChatState{Name: name, Total: *total, Members: []string{}}
	if members := t.members.Find(name); members != nil {
		state.Members = slices.Clone(*members)
	}

	return state, true
}

func (t *Tracker) User(name string) (domain.UserState, bool) {
	u := t.users.Find(name)
	if u == nil {
		return domain.UserState{}, false
	}

	return domain.UserState{Name: u.Name(), Chats: u.Chats()}, true
}

// Snapshot copies the whole tracker state, chats and users sorted by name.
func (t *Tracker) Snapshot() domain.Snapshot {
	snapshot := domain.Snapshot{
		Chats: make([]domain.ChatState, 0, t.totals.Len()),
		Users: make([]domain.UserState, 0, t.users.Len()),
	}

	t.totals.Range(func(name string, total *int) bool {
		state := domain.ChatState{Name: name, Total: *total, Members: []string{}}
		if members := t.members.Find(name); members != nil {
			state.Members = slices.Clone(*members)
		}
		snapshot.Chats = append(snapshot.Chats, state)
		return true
	})

	t.users.Range(func(name string, u *domain.User) bool {
		snapshot.Users = append(snapshot.Users, domain.UserState{Name: name, Chats: u.Chats()})
		return true
	})

	slices.SortFunc(snapshot.Chats, func(a, b domain.ChatState) int {
		return strings.Compare(a.Name, b.Name)
	})
	slices.SortFunc(snapshot.Users, func(a, b domain.UserState) int {
		return strings.Compare(a.Name, b.Name)
	})

	return snapshot
}

func (t *Tracker) Stats() domain.Stats {
	memberships := 0
	t.users.Range(func(_ string, u *domain.User) bool {
		memberships += u.Len()
		return true
	})

	return domain.Stats{
		BucketCount:       t.buckets,
		Users:             t.users.Len(),
		Chats:             t.totals.Len(),
		LongestUserChain:  t.users.LongestChain(),
		LongestChatChain:  t.totals.LongestChain(),
		ActiveMemberships: memberships,
	}
}
