package host

import (
	"testing"

	"github.com/abdul-hamid-achik/restmd/packages/core/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ActiveView(t *testing.T) {
	m := NewMemory()

	_, err := m.ActiveView()
	assert.ErrorIs(t, err, ErrNoActiveView)

	m.Open("GET https://a\n###\nGET https://b", "GET https://a", "GET https://b")
	view, err := m.ActiveView()
	require.NoError(t, err)
	assert.Equal(t, "GET https://a", view.PrimarySelection())
	assert.Equal(t, []string{"GET https://a", "GET https://b"}, view.Selections())
	assert.Contains(t, view.Text(), "###")

	m.Close()
	_, err = m.ActiveView()
	assert.ErrorIs(t, err, ErrNoActiveView)
}

func TestMemory_Surfaces(t *testing.T) {
	m := NewMemory()

	s1, err := m.OutputSurface("")
	require.NoError(t, err)
	assert.Equal(t, "output-1", s1.ID())
	assert.True(t, m.SurfaceExists("output-1"))

	same, err := m.OutputSurface("output-1")
	require.NoError(t, err)
	assert.Same(t, s1, same)

	require.NoError(t, s1.Append("one\n"))
	require.NoError(t, s1.Append("two\n"))
	ms, ok := m.Surface("output-1")
	require.True(t, ok)
	assert.Equal(t, "one\ntwo\n", ms.Content())

	require.NoError(t, s1.Clear())
	assert.Empty(t, ms.Content())

	m.RemoveSurface("output-1")
	assert.False(t, m.SurfaceExists("output-1"))

	s2, err := m.OutputSurface("output-1")
	require.NoError(t, err)
	assert.Equal(t, "output-2", s2.ID())
}

func TestMemory_Split(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Split(state.LayoutSideBySide))
	require.NoError(t, m.Split(state.LayoutStacked))
	assert.Equal(t, []state.Layout{state.LayoutSideBySide, state.LayoutStacked}, m.Splits())
}

func TestStaticView_Empty(t *testing.T) {
	v := NewStaticView("text")
	assert.Equal(t, "", v.PrimarySelection())
	assert.Empty(t, v.Selections())
}
