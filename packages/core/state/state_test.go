package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	tests := []struct {
		input    string
		expected Layout
		wantErr  bool
	}{
		{input: "vsplit", expected: LayoutSideBySide},
		{input: "v", expected: LayoutSideBySide},
		{input: "vertical", expected: LayoutSideBySide},
		{input: "hsplit", expected: LayoutStacked},
		{input: "h", expected: LayoutStacked},
		{input: "horizontal", expected: LayoutStacked},
		{input: "Vertical", wantErr: true},
		{input: "HSPLIT", wantErr: true},
		{input: " h ", wantErr: true},
		{input: "diagonal", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLayout(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLayout_Orientation(t *testing.T) {
	assert.Equal(t, "vertical", LayoutSideBySide.Orientation())
	assert.Equal(t, "horizontal", LayoutStacked.Orientation())
}

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultTimeoutMs, s.TimeoutMs)
	assert.Equal(t, 30*time.Second, s.Timeout())
	assert.Equal(t, LayoutSideBySide, s.Layout)
	assert.True(t, s.IncludeHeaders)
	assert.Zero(t, s.RequestCount)
	assert.False(t, s.HasOutputTarget())
	assert.NoError(t, s.Validate())
}

func TestState_WithHelpersCopy(t *testing.T) {
	base := New()
	changed := base.WithTimeoutMs(5000).WithLayout(LayoutStacked).WithIncludeHeaders(false).WithOutputTarget("out-1").Advance(3)

	assert.Equal(t, New(), base)
	assert.Equal(t, 5000, changed.TimeoutMs)
	assert.Equal(t, LayoutStacked, changed.Layout)
	assert.False(t, changed.IncludeHeaders)
	assert.Equal(t, "out-1", changed.OutputTarget)
	assert.Equal(t, 3, changed.RequestCount)
}

func TestStore_Update(t *testing.T) {
	t.Run("applies valid update", func(t *testing.T) {
		s := NewStore(New())
		next, err := s.Update(func(cur State) (State, error) {
			return cur.WithTimeoutMs(1000), nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1000, next.TimeoutMs)
		assert.Equal(t, 1000, s.Load().TimeoutMs)
	})

	t.Run("rejects invalid state", func(t *testing.T) {
		s := NewStore(New())
		_, err := s.Update(func(cur State) (State, error) {
			return cur.WithTimeoutMs(0), nil
		})
		assert.Error(t, err)
		assert.Equal(t, New(), s.Load())
	})

	t.Run("rejects timeout beyond duration range", func(t *testing.T) {
		s := NewStore(New())
		_, err := s.Update(func(cur State) (State, error) {
			return cur.WithTimeoutMs(10_000_000_000_000), nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most")
		assert.Equal(t, New(), s.Load())
	})

	t.Run("callback error leaves state untouched", func(t *testing.T) {
		s := NewStore(New())
		_, err := s.Update(func(cur State) (State, error) {
			return cur.Advance(10), errors.New("boom")
		})
		assert.EqualError(t, err, "boom")
		assert.Zero(t, s.Load().RequestCount)
	})

	t.Run("concurrent advances are not lost", func(t *testing.T) {
		s := NewStore(New())
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = s.Update(func(cur State) (State, error) {
					return cur.Advance(2), nil
				})
			}()
		}
		wg.Wait()
		assert.Equal(t, 100, s.Load().RequestCount)
	})
}

func TestNewStore_InvalidSeed(t *testing.T) {
	s := NewStore(State{})
	assert.Equal(t, New(), s.Load())
}

func TestDefault_SingleInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}
