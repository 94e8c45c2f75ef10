package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/restmd/packages/core/config"
	"github.com/abdul-hamid-achik/restmd/packages/host"
	"github.com/abdul-hamid-achik/restmd/packages/logging"
	"github.com/abdul-hamid-achik/restmd/packages/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompt(t *testing.T, path string) (*prompt, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Translator = `cat >/dev/null; echo '["echo hi"]'`

	var markdown, status bytes.Buffer
	editor := host.NewFile(path, host.WithWriter(&markdown, false))
	sess, err := newSession(cfg, editor, logging.Discard())
	require.NoError(t, err)

	console := output.NewConsoleFormatter(output.WithWriter(&status), output.WithNoColor(true))
	return &prompt{session: sess, editor: editor, console: console, help: "help text"}, &markdown, &status
}

func TestPrompt_StateCommands(t *testing.T) {
	p, _, status := newTestPrompt(t, "")

	input := strings.Join([]string{
		"timeout",
		"timeout 5",
		"timeout abc",
		"layout h",
		"layout diagonal",
		"headers",
		"",
		"bogus",
		"quit",
		"timeout 9",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, p.loop(context.Background(), strings.NewReader(input), &out))

	got := status.String()
	assert.Contains(t, got, "Timeout is 30 seconds")
	assert.Contains(t, got, "Timeout set to 5 seconds")
	assert.Contains(t, got, "whole number of seconds")
	assert.Contains(t, got, "Layout set to horizontal")
	assert.Contains(t, got, "Response headers disabled")
	assert.NotContains(t, got, "Timeout set to 9 seconds")
	assert.Contains(t, out.String(), `unknown command "bogus"`)
	assert.Equal(t, 5000, p.session.State().TimeoutMs)
}

func TestPrompt_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.http")
	require.NoError(t, os.WriteFile(path, []byte("GET http://example.com\n"), 0644))

	p, markdown, _ := newTestPrompt(t, path)

	status, ok := p.dispatch(context.Background(), "run", []string{"1"})
	require.True(t, ok)
	assert.False(t, status.Failed(), status.Message)
	assert.Equal(t, "Executed 1 request(s)", status.Message)
	assert.Contains(t, markdown.String(), "## Request 1")

	status, _ = p.dispatch(context.Background(), "run", []string{"x"})
	assert.True(t, status.Failed())
	assert.Contains(t, status.Message, `invalid line "x"`)
}

func TestPrompt_Open(t *testing.T) {
	p, _, _ := newTestPrompt(t, "")

	status, _ := p.dispatch(context.Background(), "buffer", nil)
	assert.True(t, status.Failed())

	status, _ = p.dispatch(context.Background(), "open", nil)
	assert.True(t, status.Failed())

	status, _ = p.dispatch(context.Background(), "open", []string{"api.http"})
	assert.False(t, status.Failed())
	assert.Equal(t, "api.http", p.editor.Path())
}

func TestPrompt_EOF(t *testing.T) {
	p, _, _ := newTestPrompt(t, "")

	var out bytes.Buffer
	require.NoError(t, p.loop(context.Background(), strings.NewReader("stats\n"), &out))
	assert.Contains(t, out.String(), "restmd> ")
}
