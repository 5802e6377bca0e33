// ABOUTME: Tests for stacked alert banners and the notifier dispatcher
// ABOUTME: Alerts expire independently; sticky alerts persist; pre-attach messages buffer
package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertsStack(t *testing.T) {
	m := loadedModel(&fakeClient{})

	m, cmd1 := update(t, m, alertMsg{text: "first", severity: severitySuccess, timeout: defaultAlertTimeout})
	require.NotNil(t, cmd1)
	m, cmd2 := update(t, m, alertMsg{text: "second", severity: severityDanger, timeout: defaultAlertTimeout})
	require.NotNil(t, cmd2)

	require.Len(t, m.alerts, 2)
	view := m.View()
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "second")
}

func TestAlertExpiresIndependently(t *testing.T) {
	m := loadedModel(&fakeClient{})

	m, _ = update(t, m, alertMsg{text: "first", timeout: defaultAlertTimeout})
	m, _ = update(t, m, alertMsg{text: "second", timeout: defaultAlertTimeout})
	require.Len(t, m.alerts, 2)

	firstID := m.alerts[0].id
	m, _ = update(t, m, alertExpiredMsg{id: firstID})
	require.Len(t, m.alerts, 1)
	assert.Equal(t, "second", m.alerts[0].text)

	// Expiring an unknown id is harmless.
	m, _ = update(t, m, alertExpiredMsg{id: "gone"})
	assert.Len(t, m.alerts, 1)
}

func TestStickyAlertHasNoExpiryTimer(t *testing.T) {
	m := loadedModel(&fakeClient{})
	m, cmd := update(t, m, alertMsg{text: "stay", timeout: 0})
	assert.Nil(t, cmd)
	require.Len(t, m.alerts, 1)
	assert.True(t, m.alerts[0].sticky)
}

func TestStickyAlertDismissedWithKey(t *testing.T) {
	m := loadedModel(&fakeClient{})
	m, cmd := update(t, m, alertMsg{text: "stay", timeout: 0})
	require.Nil(t, cmd)
	require.Len(t, m.alerts, 1)

	m, _ = update(t, m, key("x"))
	assert.Empty(t, m.alerts)

	// Dismissing with nothing showing is harmless.
	m, _ = update(t, m, key("x"))
	assert.Empty(t, m.alerts)
}

func TestDismissRemovesOldestFirst(t *testing.T) {
	m := loadedModel(&fakeClient{})
	m, _ = update(t, m, alertMsg{text: "first", timeout: 0})
	m, _ = update(t, m, alertMsg{text: "second", timeout: defaultAlertTimeout})
	require.Len(t, m.alerts, 2)

	m, _ = update(t, m, key("x"))
	require.Len(t, m.alerts, 1)
	assert.Equal(t, "second", m.alerts[0].text)
}

func TestDismissWorksInsideForm(t *testing.T) {
	m := loadedModel(&fakeClient{})
	m, _ = update(t, m, key("n"))
	require.Equal(t, ViewForm, m.viewMode)
	m, _ = update(t, m, alertMsg{text: "stay", timeout: 0})
	require.Len(t, m.alerts, 1)

	// A plain "x" is form input; the control chord dismisses anywhere.
	m, _ = update(t, m, key("x"))
	require.Len(t, m.alerts, 1)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Empty(t, m.alerts)
	assert.Equal(t, ViewForm, m.viewMode)
}

func TestDispatcherBuffersBeforeAttach(t *testing.T) {
	d := NewDispatcher()

	d.Notify("early one")
	d.Notify("early two")

	var got []tea.Msg
	d.Attach(func(msg tea.Msg) { got = append(got, msg) })
	require.Len(t, got, 2)

	first, ok := got[0].(alertMsg)
	require.True(t, ok)
	assert.Equal(t, "early one", first.text)
	assert.Equal(t, severityDanger, first.severity)
	assert.Equal(t, defaultAlertTimeout, first.timeout)

	d.Notify("live")
	require.Len(t, got, 3)
}

func TestDispatcherConcurrentNotify(t *testing.T) {
	d := NewDispatcher()
	received := make(chan tea.Msg, 16)
	d.Attach(func(msg tea.Msg) { received <- msg })

	for i := 0; i < 8; i++ {
		go d.Notify("boom")
	}

	for i := 0; i < 8; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatal("missing notification")
		}
	}
}
