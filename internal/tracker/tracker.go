// Package tracker records chat membership and per-chat contribution counts.
//
// A Tracker keeps three indexes over fixed-bucket hash maps: users by name,
// contribution totals by chat, and member lists by chat. Every exported
// operation leaves them consistent: a chat lists a user exactly when that
// user's history contains the chat.
//
// Lookups that find nothing are reported with sentinel values (0 or
// domain.NotFound) and never mutate state. A Tracker is not safe for
// concurrent use.
package tracker

import (
	"log/slog"
	"slices"

	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/bnema/chat-tracker/internal/hashmap"
	"github.com/bnema/chat-tracker/internal/ports"
)

type Tracker struct {
	users   *hashmap.Map[string, domain.User]
	totals  *hashmap.Map[string, int]
	members *hashmap.Map[string, []string]
	buckets int
	logger  *slog.Logger
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

var _ ports.ChatTracker = (*Tracker)(nil)

// New returns an empty tracker whose three maps use bucketCount buckets for
// their whole lifetime.
func New(bucketCount int, opts ...Option) *Tracker {
	t := &Tracker{
		users:   hashmap.New[string, domain.User](bucketCount, hashmap.StringHash),
		totals:  hashmap.New[string, int](bucketCount, hashmap.StringHash),
		members: hashmap.New[string, []string](bucketCount, hashmap.StringHash),
		logger:  slog.New(slog.DiscardHandler),
	}
	t.buckets = t.users.BucketCount()

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Join makes chat the user's current chat, creating the user and the chat on
// first sight. Rejoining keeps the user's accumulated count in chat.
func (t *Tracker) Join(user, chat string) {
	u := t.users.Find(user)
	if u == nil {
		t.users.Associate(user, domain.NewUser(user))
		u = t.users.Find(user)
	}
	u.AddCurrentChat(chat)

	if members := t.members.Find(chat); members != nil {
		if !slices.Contains(*members, user) {
			*members = append(*members, user)
		}
	} else {
		t.members.Associate(chat, []string{user})
	}

	if t.totals.Find(chat) == nil {
		t.totals.Associate(chat, 0)
		t.logger.Debug("chat created", "chat", chat, "user", user)
	}
}

// Terminate removes chat from every member's history and forgets it. It
// returns the chat's total contributions, or 0 for an unknown chat.
func (t *Tracker) Terminate(chat string) int {
	members := t.members.Find(chat)
	memberCount := 0
	if members != nil {
		memberCount = len(*members)
		for _, name := range *members {
			if u := t.users.Find(name); u != nil {
				u.LeaveChat(chat)
			}
		}
	}
	t.members.Erase(chat)

	total := 0
	if p := t.totals.Find(chat); p != nil {
		total = *p
	}
	t.totals.Erase(chat)

	if members != nil {
		t.logger.Debug("chat terminated", "chat", chat, "members", memberCount, "total", total)
	}

	return total
}

// Contribute credits one contribution to the user's current chat and returns
// the user's new count there. Unknown users and users without a current chat
// get 0.
func (t *Tracker) Contribute(user string) int {
	u := t.users.Find(user)
	if u == nil {
		return 0
	}

	chat, ok := u.CurrentChat()
	if !ok {
		return 0
	}

	u.SetCurrentCount(u.CurrentCount() + 1)
	if total := t.totals.Find(chat); total != nil {
		*total++
	}

	return u.CurrentCount()
}

// Leave removes chat from the user's history wherever it sits and returns the
// user's count in it, or domain.NotFound.
func (t *Tracker) Leave(user, chat string) int {
	u := t.users.Find(user)
	if u == nil {
		return domain.NotFound
	}

	count := u.LeaveChat(chat)
	if count == domain.NotFound {
		return domain.NotFound
	}
	t.removeMember(chat, user)

	return count
}

// LeaveCurrent leaves the user's current chat and returns the user's count in
// it, or domain.NotFound. The previous chat, if any, becomes current.
func (t *Tracker) LeaveCurrent(user string) int {
	u := t.users.Find(user)
	if u == nil {
		return domain.NotFound
	}

	chat, ok := u.CurrentChat()
	if !ok {
		return domain.NotFound
	}

	count := u.LeaveCurrentChat()
	t.removeMember(chat, user)

	return count
}

func (t *Tracker) removeMember(chat, user string) {
	members := t.members.Find(chat)
	if members == nil {
		return
	}
	*members = slices.DeleteFunc(*members, func(name string) bool {
		return name == user
	})
}

func (t *Tracker) BucketCount() int {
	return t.buckets
}
