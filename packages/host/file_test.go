package host

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/restmd/packages/core/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requests = `@host = example.com

### first
GET https://{{host}}/a

### second
POST https://{{host}}/b

{"x": 1}
`

func writeRequests(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requests.http")
	require.NoError(t, os.WriteFile(path, []byte(requests), 0644))
	return path
}

func TestFile_ActiveView(t *testing.T) {
	path := writeRequests(t)

	t.Run("all request blocks", func(t *testing.T) {
		view, err := NewFile(path).ActiveView()
		require.NoError(t, err)
		sel := view.Selections()
		require.Len(t, sel, 2)
		assert.Contains(t, sel[0], "GET https://{{host}}/a")
		assert.Contains(t, sel[1], "POST https://{{host}}/b")
		assert.Equal(t, sel[0], view.PrimarySelection())
		assert.Equal(t, requests, view.Text())
	})

	t.Run("selected lines", func(t *testing.T) {
		view, err := NewFile(path, WithLines(7, 4)).ActiveView()
		require.NoError(t, err)
		sel := view.Selections()
		require.Len(t, sel, 2)
		assert.Contains(t, sel[0], "POST")
		assert.Contains(t, sel[1], "GET")
	})

	t.Run("line in declarations block is blank", func(t *testing.T) {
		view, err := NewFile(path, WithLines(1)).ActiveView()
		require.NoError(t, err)
		assert.Equal(t, []string{""}, view.Selections())
	})

	t.Run("line out of range", func(t *testing.T) {
		_, err := NewFile(path, WithLines(100)).ActiveView()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 100")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFile(filepath.Join(t.TempDir(), "nope.http")).ActiveView()
		assert.Error(t, err)
	})
}

func TestFile_MarkdownSurface(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.md")
	f := NewFile(writeRequests(t), WithOutputFile(out))

	s, err := f.OutputSurface("")
	require.NoError(t, err)
	assert.Equal(t, out, s.ID())
	assert.True(t, f.SurfaceExists(out))

	require.NoError(t, s.Append("## Request 1\n"))
	require.NoError(t, s.Append("## Request 2\n"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "## Request 1\n## Request 2\n", string(data))

	require.NoError(t, s.Clear())
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFile_TerminalSurface(t *testing.T) {
	var buf bytes.Buffer
	f := NewFile(writeRequests(t), WithWriter(&buf, false))

	s, err := f.OutputSurface("")
	require.NoError(t, err)
	assert.Equal(t, TerminalSurfaceID, s.ID())

	require.NoError(t, s.Append("## Request 1\n"))
	assert.Equal(t, "## Request 1\n", buf.String())
	require.NoError(t, s.Clear())
	assert.Equal(t, "## Request 1\n", buf.String())

	t.Run("highlighted", func(t *testing.T) {
		var colored bytes.Buffer
		term := &Terminal{w: &colored, color: true}
		require.NoError(t, term.Append("## Request 1\n"))
		assert.Contains(t, colored.String(), "Request 1")
		assert.Contains(t, colored.String(), "\x1b[")
	})
}

func TestFile_Split(t *testing.T) {
	f := NewFile("unused.http")
	require.NoError(t, f.Split(state.LayoutStacked))
	assert.Equal(t, state.LayoutStacked, f.Layout())
}

func TestFile_OpenAndSelect(t *testing.T) {
	f := NewFile("")
	_, err := f.ActiveView()
	assert.ErrorIs(t, err, ErrNoActiveView)

	path := writeRequests(t)
	f.Open(path)
	assert.Equal(t, path, f.Path())

	f.Select(7)
	view, err := f.ActiveView()
	require.NoError(t, err)
	require.Len(t, view.Selections(), 1)
	assert.Contains(t, view.PrimarySelection(), "POST")

	f.Select()
	view, err = f.ActiveView()
	require.NoError(t, err)
	assert.Len(t, view.Selections(), 2)
}
