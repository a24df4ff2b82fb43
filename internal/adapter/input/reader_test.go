package input

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/alerter/internal/model"
)

func importString(t *testing.T, s string) ([]model.Notification, error) {
	t.Helper()
	return NewReaderImporter("test", strings.NewReader(s)).Import(context.Background())
}

func TestImport_JSONArray(t *testing.T) {
	got, err := importString(t, `[
		{"app_name": "mail", "summary": "New mail", "urgency": 2, "timeout": "5s"},
		{"summary": "Build done", "urgency": "low", "level": "success", "position": "top-left"}
	]`)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "mail", got[0].AppName)
	assert.Equal(t, model.UrgencyCritical, got[0].Urgency)
	assert.Equal(t, 5*time.Second, got[0].Timeout)

	assert.Equal(t, model.UrgencyLow, got[1].Urgency)
	assert.Equal(t, model.LevelSuccess, got[1].Level)
	assert.Equal(t, "top-left", got[1].Position)
}

func TestImport_JSONLines(t *testing.T) {
	got, err := importString(t, "{\"summary\":\"one\"}\n{\"summary\":\"two\",\"sticky\":true}\n")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.UrgencyNormal, got[0].Urgency, "unset urgency is normal")
	assert.True(t, got[1].Sticky)
}

func TestImport_YAML(t *testing.T) {
	got, err := importString(t, `
- summary: Disk almost full
  body: 95% used
  urgency: critical
  class: storage
- summary: Backup finished
  timeout: 1500
---
summary: Separate document
suppress_sound: true
`)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "95% used", got[0].Body)
	assert.Equal(t, model.UrgencyCritical, got[0].Urgency)
	assert.Equal(t, "storage", got[0].Class)
	assert.Equal(t, 1500*time.Millisecond, got[1].Timeout)
	assert.True(t, got[2].SuppressSound)
}

func TestImport_BareString(t *testing.T) {
	got, err := importString(t, "Coffee is ready\n")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Coffee is ready", got[0].Summary)
}

func TestImport_Empty(t *testing.T) {
	got, err := importString(t, "  \n\n")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		is    error
	}{
		{"malformed json", `[{"summary": }]`, nil},
		{"bad urgency", `{"summary": "x", "urgency": "extreme"}`, model.ErrInvalidUrgency},
		{"empty text", `[{"app_name": "silent"}]`, model.ErrEmptyText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importString(t, tt.input)
			require.Error(t, err)

			var adapterErr *AdapterError
			assert.ErrorAs(t, err, &adapterErr)
			assert.Equal(t, "test", adapterErr.Source)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "a b\tc\nd", sanitizeString(" a\x07b\tc\nd "))
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"summary":"from file"}`), 0o600))

	imp, closeFn, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	assert.Equal(t, path, imp.Name())
	got, err := imp.Import(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, _, err = Open(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	stdin, _, err := Open("-")
	require.NoError(t, err)
	assert.Equal(t, "stdin", stdin.Name())
}
