package ui

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/krepsys/tui/internal/api"
	"github.com/krepsys/tui/internal/apitest"
	"github.com/krepsys/tui/internal/export"
	"github.com/krepsys/tui/internal/query"
	"github.com/krepsys/tui/internal/service"
)

var testNow = time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC)

// testModel creates a sized Model backed by a fake server
func testModel(t *testing.T) (Model, *apitest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := apitest.New()
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Options{BaseURL: srv.URL, Logger: logger})
	require.NoError(t, err)
	cache, err := query.NewCache(64, nil, logger)
	require.NoError(t, err)

	m := NewModel(context.Background(), Options{
		Service:  service.New(client, cache, logger),
		Exporter: export.New(true),
		Logger:   logger,
		Sanitize: true,
		Now:      func() time.Time { return testNow },
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), srv
}

// started runs Init to completion
func started(t *testing.T) (Model, *apitest.Server) {
	t.Helper()
	m, srv := testModel(t)
	return drain(t, m, m.Init()), srv
}

// drain executes cmd and feeds every resulting message back into the
// model until nothing is left. Timers that do not fire quickly are dropped,
// and spinner ticks are never fed back.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	pending := []tea.Cmd{cmd}
	for round := 0; len(pending) > 0; round++ {
		require.Less(t, round, 25, "command chain did not settle")
		msgs := collect(pending)
		pending = nil
		for _, msg := range msgs {
			next, c := m.Update(msg)
			m = next.(Model)
			if c != nil {
				pending = append(pending, c)
			}
		}
	}
	return m
}

// collect runs cmds concurrently, flattening batches
func collect(cmds []tea.Cmd) []tea.Msg {
	ch := make(chan tea.Msg, 256)
	var mu sync.Mutex
	outstanding := 0
	spawn := func(c tea.Cmd) {
		if c == nil {
			return
		}
		mu.Lock()
		outstanding++
		mu.Unlock()
		go func() { ch <- c() }()
	}
	for _, c := range cmds {
		spawn(c)
	}

	var out []tea.Msg
	deadline := time.After(300 * time.Millisecond)
	for {
		mu.Lock()
		left := outstanding
		mu.Unlock()
		if left == 0 {
			return out
		}
		select {
		case msg := <-ch:
			mu.Lock()
			outstanding--
			mu.Unlock()
			switch msg := msg.(type) {
			case nil, spinner.TickMsg, tea.QuitMsg:
			case tea.BatchMsg:
				for _, c := range msg {
					spawn(c)
				}
			default:
				out = append(out, msg)
			}
		case <-deadline:
			return out
		}
	}
}

// key builds a key press from its String() form
func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys one by one, draining after each
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(key(k))
		m = drain(t, next.(Model), cmd)
	}
	return m
}

// typeText sends text as a single rune burst
func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return drain(t, next.(Model), cmd)
}
