package domain

type ChatState struct {
	Name    string
	Total   int
	Members []string
}

type UserState struct {
	Name string
	// Chats is ordered most recently active first.
	Chats []Membership
}

func (s UserState) CurrentChat() (string, bool) {
	if len(s.Chats) == 0 {
		return "", false
	}
	return s.Chats[0].Chat, true
}

// Snapshot is a point-in-time copy of tracker state, sorted by name.
type Snapshot struct {
	Chats []ChatState
	Users []UserState
}

func (s Snapshot) TotalContributions() int {
	total := 0
	for _, chat := range s.Chats {
		total += chat.Total
	}
	return total
}

// Stats describes how keys spread over the tracker's fixed buckets.
type Stats struct {
	BucketCount       int
	Users             int
	Chats             int
	LongestUserChain  int
	LongestChatChain  int
	ActiveMemberships int
}
