package toml

const currentSchemaVersion = 1

type fileSchema struct {
	Version     int           `toml:"version"`
	GeneratedAt string        `toml:"generated_at,omitempty"`
	Tracker     trackerSchema `toml:"tracker"`
	Replay      replaySchema  `toml:"replay"`
	Chats       []chatSchema  `toml:"chats"`
	Users       []userSchema  `toml:"users"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Chats == nil {
		s.Chats = []chatSchema{}
	}
	if s.Users == nil {
		s.Users = []userSchema{}
	}
}

type trackerSchema struct {
	Buckets            int `toml:"buckets"`
	Users              int `toml:"users"`
	Chats              int `toml:"chats"`
	ActiveMemberships  int `toml:"active_memberships"`
	LongestUserChain   int `toml:"longest_user_chain"`
	LongestChatChain   int `toml:"longest_chat_chain"`
	TotalContributions int `toml:"total_contributions"`
}

type replaySchema struct {
	Commands                int    `toml:"commands"`
	Skipped                 int    `toml:"skipped"`
	Joins                   int    `toml:"joins"`
	Terminates              int    `toml:"terminates"`
	Contributes             int    `toml:"contributes"`
	Leaves                  int    `toml:"leaves"`
	Misses                  int    `toml:"misses"`
	TerminatedContributions int    `toml:"terminated_contributions"`
	Duration                string `toml:"duration"`
}

type chatSchema struct {
	Name    string   `toml:"name"`
	Total   int      `toml:"total"`
	Members []string `toml:"members"`
}

type userSchema struct {
	Name    string             `toml:"name"`
	Current string             `toml:"current,omitempty"`
	Chats   []membershipSchema `toml:"chats,omitempty"`
}

type membershipSchema struct {
	Chat  string `toml:"chat"`
	Count int    `toml:"count"`
}
