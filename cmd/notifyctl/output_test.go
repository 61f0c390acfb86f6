package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnyineza/RindwaApp-sub000/internal/notifier"
	"github.com/winnyineza/RindwaApp-sub000/internal/tracker"
)

func TestOutputResult_Formats(t *testing.T) {
	res := notifier.BroadcastResult{Sent: 3, Failed: 1}
	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"SENT:", "FAILED:"}},
		{"", []string{"SENT:"}},
		{"json", []string{`"sent": 3`, `"failed": 1`}},
		{"yaml", []string{"sent: 3", "failed: 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, outputResult(&buf, res, tt.format))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestOutputResult_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := outputResult(&buf, tracker.Stats{}, "xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestOutputTable_EmptyStatsOmitsBreakdowns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, outputResult(&buf, tracker.Stats{}, "table"))
	assert.Contains(t, buf.String(), "SUBSCRIPTIONS:")
	assert.NotContains(t, buf.String(), "CHANNEL")
	assert.NotContains(t, buf.String(), "DEVICE")
}

func TestOutputTable_UnknownTypeFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, outputResult(&buf, map[string]int{"n": 1}, "table"))
	assert.JSONEq(t, `{"n":1}`, buf.String())
}
