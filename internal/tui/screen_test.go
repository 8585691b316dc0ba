package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotview/internal/plot"
	"plotview/internal/updater"
	"plotview/internal/view"
)

// loopSender feeds messages straight into the model, standing in for the
// program's event loop.
type loopSender struct {
	m tea.Model
}

func (l *loopSender) Send(msg tea.Msg) {
	l.m, _ = l.m.Update(msg)
}

func (l *loopSender) model() Model { return l.m.(Model) }

func newHarness(t *testing.T, ids ...string) (*Screen, *loopSender, *updater.Updater) {
	t.Helper()
	store := view.NewStore()
	s := NewScreen(store)
	for _, id := range ids {
		s.Mount(id)
	}
	loop := &loopSender{m: s.NewModel(nil, DefaultSettings())}
	s.attach(loop)
	return s, loop, updater.New(s, s)
}

const scatter = `{"data":[{"type":"scatter3d","mode":"markers","x":[0,1,2],"y":[0,1,4],"z":[1,0,1]}],"layout":{}}`

func TestFirstRenderRecordsDefaultView(t *testing.T) {
	s, loop, u := newHarness(t, "chart1")

	_, ok := s.Element("chart1")
	require.True(t, ok)
	el, _ := s.Element("chart1")
	_, rendered := el.Layout()
	assert.False(t, rendered, "no view state before the first render")

	require.NoError(t, u.Update(context.Background(), "chart1", scatter))

	st, ok := el.Layout()
	require.True(t, ok)
	want := view.State(view.Options(view.Default()))
	if diff := cmp.Diff(want, st); diff != "" {
		t.Fatalf("recorded state (-want +got):\n%s", diff)
	}
	p := loop.model().panels["chart1"]
	assert.True(t, p.rendered)
	assert.Equal(t, 3, p.plot.Points())
}

func TestRepeatedUpdatesAreStable(t *testing.T) {
	s, _, u := newHarness(t, "chart1")
	require.NoError(t, u.Update(context.Background(), "chart1", scatter))
	first, err := u.Options("chart1")
	require.NoError(t, err)
	require.NoError(t, u.Update(context.Background(), "chart1", scatter))
	second, err := u.Options("chart1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"chart1"}, s.Elements())
}

func TestUserCameraSurvivesUpdate(t *testing.T) {
	s, loop, u := newHarness(t, "chart1")
	require.NoError(t, u.Update(context.Background(), "chart1", scatter))

	loop.Send(tea.KeyMsg{Type: tea.KeyLeft})
	loop.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	loop.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	el, _ := s.Element("chart1")
	adjusted, ok := el.Layout()
	require.True(t, ok)
	require.NotNil(t, adjusted.Camera().Eye)
	assert.Equal(t, dragZoom, *adjusted.DragMode)

	require.NoError(t, u.Update(context.Background(), "chart1", `{"data":[{"type":"scatter3d","x":[5],"y":[5],"z":[5]}]}`))

	after, _ := el.Layout()
	if diff := cmp.Diff(adjusted.Camera(), after.Camera()); diff != "" {
		t.Fatalf("camera changed by update (-before +after):\n%s", diff)
	}
	assert.Equal(t, dragZoom, *after.DragMode)
	assert.False(t, *after.ShowLegend)
	assert.Equal(t, 1, loop.model().panels["chart1"].plot.Points())
}

func TestResetReturnsToDefaultView(t *testing.T) {
	s, loop, u := newHarness(t, "chart1")
	require.NoError(t, u.Update(context.Background(), "chart1", scatter))
	loop.Send(tea.KeyMsg{Type: tea.KeyUp})
	loop.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})

	el, _ := s.Element("chart1")
	st, _ := el.Layout()
	assert.Equal(t, view.Default().Scene, st.Scene)
}

func TestUnknownElementFailsRender(t *testing.T) {
	_, _, u := newHarness(t, "chart1")
	err := u.Update(context.Background(), "chart2", scatter)
	assert.ErrorIs(t, err, ErrNoSuchElement)
}

func TestSchemaErrorKeepsLastRender(t *testing.T) {
	s, loop, u := newHarness(t, "chart1")
	require.NoError(t, u.Update(context.Background(), "chart1", scatter))
	el, _ := s.Element("chart1")
	before, _ := el.Layout()

	tests := []struct {
		in    string
		trace int
	}{
		{`{"data":[{"type":"bar","x":[1],"y":[2]}]}`, 0},
		{`{"data":[{"type":"scatter3d","x":[1,2],"y":[2,3],"z":[1]}]}`, 0},
		{`{"data":[{"x":[1,2],"y":[2]}]}`, 0},
		{`[]`, -1},
		{`{"data":[{"type":"scatter3d","x":["a","b"],"y":[1,2],"z":[1,2]}]}`, -1},
		{`{"data":[{"type":"surface","z":[[1,2],[3,4]]}]}`, -1},
	}
	for _, tt := range tests {
		err := u.Update(context.Background(), "chart1", tt.in)
		var pe *plot.ParseError
		require.False(t, errors.As(err, &pe), "input %s: got parse error %v", tt.in, err)
		var se *SchemaError
		require.True(t, errors.As(err, &se), "input %s: got %v", tt.in, err)
		assert.Equal(t, tt.trace, se.Trace, tt.in)
	}
	assert.Equal(t, 3, loop.model().panels["chart1"].plot.Points())
	after, _ := el.Layout()
	assert.Equal(t, before, after)
}

func TestParseErrorDoesNotReachScreen(t *testing.T) {
	_, loop, u := newHarness(t, "chart1")
	err := u.Update(context.Background(), "chart1", "{not valid json")
	var pe *plot.ParseError
	require.True(t, errors.As(err, &pe))
	assert.False(t, loop.model().panels["chart1"].rendered)
}

func TestReactAfterCloseOrCancel(t *testing.T) {
	s := NewScreen(view.NewStore())
	s.Mount("chart1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.React(ctx, "chart1", plot.Description{}, view.Options(view.Default()))
	assert.ErrorIs(t, err, context.Canceled)

	s.Close()
	err = s.React(context.Background(), "chart1", plot.Description{}, view.Options(view.Default()))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestUnmountForgetsState(t *testing.T) {
	s, loop, u := newHarness(t, "chart1", "chart2")
	require.NoError(t, u.Update(context.Background(), "chart2", scatter))

	s.Unmount("chart2")
	_, ok := s.Element("chart2")
	assert.False(t, ok)
	_, ok = s.store.Get("chart2")
	assert.False(t, ok)
	assert.Equal(t, []string{"chart1"}, loop.model().order)

	s.Mount("chart2")
	opts, err := u.Options("chart2")
	require.NoError(t, err)
	assert.Equal(t, view.Options(view.Default()), opts)
}

func TestMountChangesBeforeStartReachModel(t *testing.T) {
	s := NewScreen(view.NewStore())
	s.Mount("chart1")
	s.Mount("chart2")
	m := s.NewModel(nil, DefaultSettings())
	s.Unmount("chart2")
	s.Mount("chart3")

	loop := &loopSender{m: m}
	s.attach(loop)
	loop.Send(m.Init()())

	got := loop.model()
	assert.Equal(t, []string{"chart1", "chart3"}, got.order)
	assert.NotContains(t, got.panels, "chart2")

	s.Mount("chart4")
	assert.Equal(t, []string{"chart1", "chart3", "chart4"}, loop.model().order)

	u := updater.New(s, s)
	require.NoError(t, u.Update(context.Background(), "chart4", scatter))
	assert.True(t, loop.model().panels["chart4"].rendered)
}

func TestViewRendersChart(t *testing.T) {
	_, loop, u := newHarness(t, "chart1", "chart2")
	loop.Send(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := loop.model().View()
	assert.Contains(t, out, "waiting for a plot")

	require.NoError(t, u.Update(context.Background(), "chart1", scatter))
	out = loop.model().View()
	assert.Contains(t, out, "chart1")
	assert.Contains(t, out, "chart2")
	assert.NotContains(t, out, "chart1: waiting for a plot")

	loop.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	assert.Equal(t, "chart2", loop.model().focused().id)
}
