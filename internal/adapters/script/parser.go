package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/chat-tracker/internal/application"
	"github.com/bnema/chat-tracker/internal/domain"
)

const maxLineBytes = 1 << 20

// SyntaxError reports a script line that is not a valid command.
type SyntaxError struct {
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parser reads commands of the form "j user chat", "t chat", "c user",
// "l user chat" and "l user". Blank lines and lines starting with '#' are
// ignored.
type Parser struct {
	scanner *bufio.Scanner
	line    int
}

var _ application.CommandSource = (*Parser)(nil)

func NewParser(r io.Reader) *Parser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &Parser{scanner: scanner}
}

// Next returns the next command, a *SyntaxError for a bad line, or io.EOF.
func (p *Parser) Next() (application.Command, error) {
	for p.scanner.Scan() {
		p.line++
		text := strings.TrimSpace(p.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		return ParseLine(p.line, text)
	}

	if err := p.scanner.Err(); err != nil {
		return application.Command{}, fmt.Errorf("scan script line %d: %w", p.line+1, err)
	}

	return application.Command{}, io.EOF
}

func ParseLine(line int, text string) (application.Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return application.Command{}, &SyntaxError{Line: line, Text: text, Err: domain.ErrMalformedCommand}
	}

	cmd := application.Command{Verb: application.Verb(fields[0]), Line: line}
	args := fields[1:]

	malformed := func() (application.Command, error) {
		return application.Command{}, &SyntaxError{Line: line, Text: text, Err: domain.ErrMalformedCommand}
	}

	switch cmd.Verb {
	case application.VerbJoin:
		if len(args) != 2 {
			return malformed()
		}
		cmd.User, cmd.Chat = args[0], args[1]
	case application.VerbTerminate:
		if len(args) != 1 {
			return malformed()
		}
		cmd.Chat = args[0]
	case application.VerbContribute:
		if len(args) != 1 {
			return malformed()
		}
		cmd.User = args[0]
	case application.VerbLeave:
		switch len(args) {
		case 1:
			cmd.User = args[0]
		case 2:
			cmd.User, cmd.Chat = args[0], args[1]
		default:
			return malformed()
		}
	default:
		return application.Command{}, &SyntaxError{Line: line, Text: text, Err: domain.ErrUnknownCommand}
	}

	return cmd, nil
}

// IsSyntaxError reports whether err carries a *SyntaxError.
func IsSyntaxError(err error) bool {
	var syntaxErr *SyntaxError
	return errors.As(err, &syntaxErr)
}
