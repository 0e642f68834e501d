package log

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEvent(t *testing.T) {
	ev := NewStateChangeEvent("sess-1", "IDLE", "ACTIVE", "boot without credentials")

	data, err := EncodeEvent(ev)
	require.NoError(t, err)

	got, err := DecodeEvent(data)
	require.NoError(t, err)

	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, CategoryState, got.Category)
	require.NotNil(t, got.StateChange)
	assert.Equal(t, "IDLE", got.StateChange.OldState)
	assert.Equal(t, "ACTIVE", got.StateChange.NewState)
	assert.True(t, ev.Timestamp.Equal(got.Timestamp))
}

func TestCredentialEventOmitsPassword(t *testing.T) {
	ev := NewCredentialEvent("sess-1", "HomeNet")
	data, err := EncodeEvent(ev)
	require.NoError(t, err)

	got, err := DecodeEvent(data)
	require.NoError(t, err)
	require.NotNil(t, got.Credential)
	assert.Equal(t, "HomeNet", got.Credential.SSID)
	assert.NotContains(t, string(data), "password")
}

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.plog")

	l, err := NewFileLogger(path)
	require.NoError(t, err)

	l.Log(NewStateChangeEvent("sess-1", "IDLE", "ACTIVE", ""))
	l.Log(NewCredentialEvent("sess-1", "HomeNet"))
	l.Log(NewErrorEvent("sess-1", "scheme start failed", "restart"))
	require.NoError(t, l.Close())

	// Log after close is ignored, not a panic
	l.Log(NewErrorEvent("sess-1", "late", ""))
	require.NoError(t, l.Close())

	events, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, CategoryState, events[0].Category)
	assert.Equal(t, CategoryCredential, events[1].Category)
	assert.Equal(t, CategoryError, events[2].Category)
	assert.Equal(t, "scheme start failed", events[2].Error.Message)
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.plog")

	l, err := NewFileLogger(path)
	require.NoError(t, err)
	l.Log(NewStateChangeEvent("a", "IDLE", "ACTIVE", ""))
	require.NoError(t, l.Close())

	l, err = NewFileLogger(path)
	require.NoError(t, err)
	l.Log(NewStateChangeEvent("b", "ACTIVE", "STOPPED", ""))
	require.NoError(t, l.Close())

	events, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].SessionID)
	assert.Equal(t, "b", events[1].SessionID)
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := NewSlogAdapter(logger)
	a.Log(NewStateChangeEvent("sess-1", "IDLE", "ACTIVE", "boot"))

	out := buf.String()
	assert.Contains(t, out, "old_state=IDLE")
	assert.Contains(t, out, "new_state=ACTIVE")
	assert.Contains(t, out, "session_id=sess-1")
}

func TestMultiLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.plog")
	fl, err := NewFileLogger(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	sa := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	m := NewMultiLogger(fl, sa, NoopLogger{})
	m.Log(NewCredentialEvent("sess-1", "HomeNet"))
	require.NoError(t, fl.Close())

	events, err := ReadAll(path)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.True(t, strings.Contains(buf.String(), "HomeNet"))
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryState, "STATE"},
		{CategoryCredential, "CREDENTIAL"},
		{CategoryError, "ERROR"},
		{Category(77), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}
