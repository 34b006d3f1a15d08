package domain

import "container/list"

// NotFound is returned by the leave operations when there is nothing to leave.
const NotFound = -1

type Membership struct {
	Chat  string
	Count int
}

// User holds every chat the user has joined and not yet left, most recently
// active first. The front entry is the current chat.
type User struct {
	name  string
	chats *list.List
}

func NewUser(name string) User {
	return User{name: name, chats: list.New()}
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Len() int {
	if u.chats == nil {
		return 0
	}
	return u.chats.Len()
}

// CurrentCount returns the contribution count in the current chat, or 0.
func (u *User) CurrentCount() int {
	front := u.front()
	if front == nil {
		return 0
	}
	return front.Value.(*Membership).Count
}

// AddCurrentChat makes chat the current chat. An existing entry keeps its count.
func (u *User) AddCurrentChat(chat string) {
	if u.chats == nil {
		u.chats = list.New()
	}

	if e := u.lookup(chat); e != nil {
		u.chats.MoveToFront(e)
		return
	}

	u.chats.PushFront(&Membership{Chat: chat})
}

func (u *User) CurrentChat() (string, bool) {
	front := u.front()
	if front == nil {
		return "", false
	}
	return front.Value.(*Membership).Chat, true
}

// LeaveChat removes chat wherever it sits in the history and returns its
// count, or NotFound.
func (u *User) LeaveChat(chat string) int {
	e := u.lookup(chat)
	if e == nil {
		return NotFound
	}
	return u.chats.Remove(e).(*Membership).Count
}

// LeaveCurrentChat removes the current chat and returns its count, or
// NotFound. The next most recent chat becomes current.
func (u *User) LeaveCurrentChat() int {
	front := u.front()
	if front == nil {
		return NotFound
	}
	return u.chats.Remove(front).(*Membership).Count
}

func (u *User) SetCurrentCount(n int) {
	if front := u.front(); front != nil {
		front.Value.(*Membership).Count = n
	}
}

// Chats returns a copy of the history, current chat first.
func (u *User) Chats() []Membership {
	memberships := make([]Membership, 0, u.Len())
	if u.chats == nil {
		return memberships
	}
	for e := u.chats.Front(); e != nil; e = e.Next() {
		memberships = append(memberships, *e.Value.(*Membership))
	}
	return memberships
}

func (u *User) front() *list.Element {
	if u.chats == nil {
		return nil
	}
	return u.chats.Front()
}

func (u *User) lookup(chat string) *list.Element {
	if u.chats == nil {
		return nil
	}
	for e := u.chats.Front(); e != nil; e = e.Next() {
		if e.Value.(*Membership).Chat == chat {
			return e
		}
	}
	return nil
}
