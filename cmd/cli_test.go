package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/chat-tracker/internal/application"
	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/bnema/chat-tracker/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const concreteScenario = `# alice moves from general to random
j alice general
c alice
j alice random
c alice
l alice general
t random
`

const focusScenario = `j alice general
c alice
j alice random
c alice
c alice
j bob random
c bob
`

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestReplayEchoesConcreteScenario(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, concreteScenario)

	stdout, _, err := executeCLI(t, home, "replay", path, "--echo")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "c alice 1\nc alice 1\nl alice general 1\nt random 1\n"), stdout)
	assert.Contains(t, stdout, "general (1)")
	assert.Contains(t, stdout, "members: none")
	assert.NotContains(t, stdout, "random (")
}

func TestReplayReadsStdin(t *testing.T) {
	stdout, _, err := executeCLIWithInput(t, t.TempDir(), "j alice general\nc alice\nc alice\n", "replay", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "general (2)")
	assert.Contains(t, stdout, "members: alice")
}

func TestReplayStrictRejectsMalformedLine(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, "j alice general\nj alice\nc alice\n")

	_, _, err := executeCLI(t, home, "replay", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedCommand)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "--strict=false")
}

func TestReplayLenientSkipsMalformedLines(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, "j alice general\nj alice\nx bob\nc alice\n")

	stdout, _, err := executeCLI(t, home, "replay", path, "--strict=false")
	require.NoError(t, err)
	assert.Contains(t, stdout, "skipped 2 malformed lines")
	assert.Contains(t, stdout, "general (1)")
}

func TestReplayJSONReport(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, concreteScenario)

	stdout, _, err := executeCLI(t, home, "replay", path, "--format", "json", "--buckets", "8")
	require.NoError(t, err)

	var report application.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 8, report.Stats.BucketCount)
	assert.Equal(t, 6, report.Summary.Commands)
	assert.Equal(t, 1, report.Summary.TerminatedContributions)
	require.Len(t, report.Chats, 1)
	assert.Equal(t, "general", report.Chats[0].Name)
	assert.Equal(t, 1, report.Chats[0].Total)
	require.Len(t, report.Users, 1)
	assert.Empty(t, report.Users[0].Chats)
}

func TestReplayReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "[tracker]\nbuckets = 5\n\n[report]\nformat = \"toml\"\n")
	path := writeScript(t, home, concreteScenario)

	stdout, _, err := executeCLI(t, home, "replay", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "version = 1")
	assert.Contains(t, stdout, "buckets = 5")
}

func TestReplayFlagOverridesConfigAndEnv(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "[tracker]\nbuckets = 5\n")
	t.Setenv("CHATTRACKER_TRACKER_BUCKETS", "6")
	path := writeScript(t, home, concreteScenario)

	stdout, _, err := executeCLI(t, home, "replay", path, "--format", "json")
	require.NoError(t, err)
	var fromEnv application.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &fromEnv))
	assert.Equal(t, 6, fromEnv.Stats.BucketCount)

	stdout, _, err = executeCLI(t, home, "replay", path, "--format", "json", "--buckets", "7")
	require.NoError(t, err)
	var fromFlag application.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &fromFlag))
	assert.Equal(t, 7, fromFlag.Stats.BucketCount)
}

func TestReplayWritesTOMLReportFile(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, concreteScenario)
	out := filepath.Join(home, "reports", "run.toml")

	_, _, err := executeCLI(t, home, "replay", path, "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[chats]]")
	assert.Contains(t, string(data), "terminated_contributions = 1")
}

func TestReplayFocusesOnChat(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, focusScenario)

	stdout, _, err := executeCLI(t, home, "replay", path, "--chat", "random")
	require.NoError(t, err)
	assert.Contains(t, stdout, "random (3)")
	assert.Contains(t, stdout, "members: alice, bob")
	assert.NotContains(t, stdout, "general (")

	_, _, err = executeCLI(t, home, "replay", path, "--chat", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrChatNotFound)
}

func TestReplayFocusesOnUser(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, focusScenario)

	stdout, _, err := executeCLI(t, home, "replay", path, "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, stdout, "alice: random 2 (current), general 1")
	assert.Contains(t, stdout, "random (3)")
	assert.Contains(t, stdout, "general (1)")
	assert.NotContains(t, stdout, "bob:")

	_, _, err = executeCLI(t, home, "replay", path, "--user", "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestReplayRejectsChatAndUserTogether(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, focusScenario)

	_, _, err := executeCLI(t, home, "replay", path, "--chat", "random", "--user", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestReplayWritesMetricsToStderr(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, focusScenario+"c ghost\n")

	_, stderr, err := executeCLI(t, home, "replay", path, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stderr, `chattracker_operations_total{op="contribute",outcome="hit"} 4`)
	assert.Contains(t, stderr, `chattracker_operations_total{op="contribute",outcome="miss"} 1`)
	assert.Contains(t, stderr, "chattracker_contributions_total 4")
}

func TestReplayDebugLogging(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, concreteScenario)

	_, stderr, err := executeCLI(t, home, "replay", path, "--log-level", "debug", "--log-json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"chat created"`)
	assert.Contains(t, stderr, `"msg":"chat terminated"`)
	assert.Contains(t, stderr, `"service":"chattracker"`)
}

func TestReplayRejectsInvalidSettings(t *testing.T) {
	home := t.TempDir()
	path := writeScript(t, home, concreteScenario)

	_, _, err := executeCLI(t, home, "replay", path, "--buckets", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidBucketSize)

	_, _, err = executeCLI(t, home, "replay", path, "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported report format "yaml"`)

	_, _, err = executeCLI(t, home, "replay", path, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log level "loud"`)
}

func TestReplayMissingScript(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "replay", filepath.Join(home, "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(input))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, "script.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func writeConfig(t *testing.T, home, body string) {
	t.Helper()

	configDir := filepath.Join(home, ".chattracker")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(body), 0o644))
}
