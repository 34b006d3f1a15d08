package application

import "strings"

type Verb string

const (
	VerbJoin       Verb = "j"
	VerbTerminate  Verb = "t"
	VerbContribute Verb = "c"
	VerbLeave      Verb = "l"
)

func (v Verb) Valid() bool {
	switch v {
	case VerbJoin, VerbTerminate, VerbContribute, VerbLeave:
		return true
	default:
		return false
	}
}

// Command is one script line. A leave without Chat leaves the user's current
// chat.
type Command struct {
	Verb Verb
	User string
	Chat string
	Line int
}

// String renders the command back into script form.
func (c Command) String() string {
	parts := []string{string(c.Verb)}
	switch c.Verb {
	case VerbTerminate:
		parts = append(parts, c.Chat)
	case VerbContribute:
		parts = append(parts, c.User)
	default:
		parts = append(parts, c.User)
		if c.Chat != "" {
			parts = append(parts, c.Chat)
		}
	}

	return strings.Join(parts, " ")
}

// CommandSource yields commands until it returns io.EOF.
type CommandSource interface {
	Next() (Command, error)
}

type ReplayOptions struct {
	// Strict aborts on the first syntax error instead of skipping the line.
	Strict bool
	// Echo, when set, receives one line per command that returns a value.
	Echo func(cmd Command, result int)
}
