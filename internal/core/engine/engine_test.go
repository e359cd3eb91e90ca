package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/matix/internal/core/events/bus"
	"github.com/zeusync/matix/internal/core/level"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/core/render"
)

func TestNewContextDefaults(t *testing.T) {
	ctx := NewContext(nil)

	assert.NotNil(t, ctx.Log)
	assert.NotNil(t, ctx.Bus)
	assert.NotNil(t, ctx.Parts)
	assert.NotNil(t, ctx.Textures)
	assert.IsType(t, &render.Nop{}, ctx.Renderer)
	assert.Equal(t, DefaultGravity, ctx.Gravity)
}

func TestNewContextOptions(t *testing.T) {
	b := bus.New()
	parts := level.NewParts()
	r := render.NewNop()

	ctx := NewContext(log.NewNop(), WithBus(b), WithParts(parts), WithRenderer(r), WithGravity(-1))

	assert.Same(t, parts, ctx.Parts)
	assert.Same(t, r, ctx.Renderer)
	assert.Equal(t, -1.0, ctx.Gravity)
	assert.Equal(t, b, ctx.Bus)
}

func TestWarnCarriesSentinel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := NewContext(log.NewWithCore(core))

	ctx.Warn(ErrDuplicateName, "object already exists", log.String("name", "crate"))

	entries := logs.FilterMessage("object already exists").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "crate", fields["name"])
	assert.Equal(t, ErrDuplicateName.Error(), fields["error"])
}

func TestPublishLogsHandlerErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := NewContext(log.NewWithCore(core))

	var got Blocked
	_, err := ctx.Bus.Subscribe(EventBlocked, func(e bus.Event) error {
		got = e.Data().(Blocked)
		return errors.New("boom")
	})
	require.NoError(t, err)

	ctx.Publish(EventBlocked, "physics", Blocked{Body: "player", Axis: AxisZ})

	assert.Equal(t, "player", got.Body)
	assert.Equal(t, "z", got.Axis.String())
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestSizeMismatchIsLevelError(t *testing.T) {
	assert.True(t, errors.Is(ErrSizeMismatch, level.ErrSizeMismatch))
}

func TestFrameClockCapsFrameRate(t *testing.T) {
	now := time.Unix(100, 0)
	var slept time.Duration
	c := &FrameClock{
		now: func() time.Time { return now },
		sleep: func(d time.Duration) {
			slept += d
			now = now.Add(d)
		},
	}

	assert.Zero(t, c.Tick(10))

	now = now.Add(20 * time.Millisecond)
	dt := c.Tick(10)
	assert.Equal(t, 80*time.Millisecond, slept)
	assert.InDelta(t, 0.1, dt, 1e-9)

	slept = 0
	now = now.Add(250 * time.Millisecond)
	dt = c.Tick(10)
	assert.Zero(t, slept)
	assert.InDelta(t, 0.25, dt, 1e-9)
}

func TestFrameClockUncapped(t *testing.T) {
	now := time.Unix(0, 0)
	c := &FrameClock{
		now:   func() time.Time { return now },
		sleep: func(time.Duration) { t.Fatal("uncapped clock must not sleep") },
	}
	c.Tick(0)
	now = now.Add(time.Millisecond)
	assert.InDelta(t, 0.001, c.Tick(0), 1e-9)
}

func TestFixedClock(t *testing.T) {
	c := NewFixedClock(0.5)
	assert.Equal(t, 0.5, c.Tick(60))
	assert.Equal(t, 0.5, c.Tick(0))
	assert.Equal(t, 2, c.Ticks)
}

func TestKeyState(t *testing.T) {
	k := NewKeyState()
	k.Press(ActionForward)
	k.MoveMouse(3, -1)
	k.MoveMouse(1, 0)

	dx, dy := k.MouseDelta()
	assert.Zero(t, dx, "motion is only visible after Poll")
	assert.Zero(t, dy)

	k.Poll()
	dx, dy = k.MouseDelta()
	assert.Equal(t, 4.0, dx)
	assert.Equal(t, -1.0, dy)
	assert.True(t, k.Pressed(ActionForward))
	assert.False(t, k.Pressed(ActionBack))

	k.Poll()
	dx, _ = k.MouseDelta()
	assert.Zero(t, dx)

	k.Release(ActionForward)
	assert.False(t, k.Pressed(ActionForward))

	assert.False(t, k.Quit())
	k.Press(ActionQuit)
	assert.True(t, k.Quit())
	k.ReleaseAll()
	assert.False(t, k.Quit())
	k.RequestQuit()
	assert.True(t, k.Quit())
}

func TestParseAction(t *testing.T) {
	actions := Actions()
	require.Len(t, actions, int(actionCount))
	for _, a := range actions {
		got, ok := ParseAction(a.String())
		require.True(t, ok, a.String())
		assert.Equal(t, a, got)
	}
	_, ok := ParseAction("jump")
	assert.False(t, ok)
	assert.Equal(t, "unknown", actionCount.String())
}
