package script

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bnema/chat-tracker/internal/application"
	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    application.Command
		wantErr error
	}{
		{
			name: "join",
			text: "j uuuuuuuuuuu00001 ccccccccccc00042",
			want: application.Command{Verb: application.VerbJoin, User: "uuuuuuuuuuu00001", Chat: "ccccccccccc00042", Line: 1},
		},
		{name: "terminate", text: "t general", want: application.Command{Verb: application.VerbTerminate, Chat: "general", Line: 1}},
		{name: "contribute", text: "c alice", want: application.Command{Verb: application.VerbContribute, User: "alice", Line: 1}},
		{name: "leave chat", text: "l alice general", want: application.Command{Verb: application.VerbLeave, User: "alice", Chat: "general", Line: 1}},
		{name: "leave current", text: "l alice", want: application.Command{Verb: application.VerbLeave, User: "alice", Line: 1}},
		{name: "extra whitespace", text: "j\talice    general ", want: application.Command{Verb: application.VerbJoin, User: "alice", Chat: "general", Line: 1}},
		{name: "join missing chat", text: "j alice", wantErr: domain.ErrMalformedCommand},
		{name: "terminate extra arg", text: "t a b", wantErr: domain.ErrMalformedCommand},
		{name: "contribute no user", text: "c", wantErr: domain.ErrMalformedCommand},
		{name: "leave too many", text: "l a b c", wantErr: domain.ErrMalformedCommand},
		{name: "unknown verb", text: "x alice", wantErr: domain.ErrUnknownCommand},
		{name: "empty", text: "   ", wantErr: domain.ErrMalformedCommand},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLine(1, tt.text)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsSyntaxError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParserSkipsBlankAndCommentLines(t *testing.T) {
	t.Parallel()

	p := NewParser(strings.NewReader("# warm up\n\nj alice general\n   \nc alice\n# done\nl alice\n"))

	var got []application.Command
	for {
		cmd, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, cmd)
	}

	assert.Equal(t, []application.Command{
		{Verb: application.VerbJoin, User: "alice", Chat: "general", Line: 3},
		{Verb: application.VerbContribute, User: "alice", Line: 5},
		{Verb: application.VerbLeave, User: "alice", Line: 7},
	}, got)
}

func TestParserReportsLineOfBadCommandAndContinues(t *testing.T) {
	t.Parallel()

	p := NewParser(strings.NewReader("j alice general\nq nope\nc alice\n"))

	_, err := p.Next()
	require.NoError(t, err)

	_, err = p.Next()
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 2, syntaxErr.Line)
	assert.Equal(t, "q nope", syntaxErr.Text)
	assert.EqualError(t, err, `line 2: unknown command: "q nope"`)

	cmd, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, cmd.Line)

	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParserWithoutTrailingNewline(t *testing.T) {
	t.Parallel()

	p := NewParser(strings.NewReader("t general"))

	cmd, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "general", cmd.Chat)

	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
}
