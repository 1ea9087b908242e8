package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTerminals(t *testing.T) {
	raw := `[
		{"terminal_id": "123", "host": "192.168.1.1", "group_id": "abc", "group_name": "Router"},
		{"terminal_id": "456", "host": "192.168.1.2", "group_id": "abc", "group_name": "Router"}
	]`
	terminals, err := decodeTerminals(raw)
	require.NoError(t, err)
	require.Len(t, terminals, 2)
	assert.Equal(t, "123", terminals[0].TerminalID)
	assert.Equal(t, "192.168.1.1", terminals[0].Host)
	assert.Equal(t, "Router", terminals[0].GroupName)
}

func TestDecodeTerminalsEmpty(t *testing.T) {
	terminals, err := decodeTerminals("")
	require.NoError(t, err)
	assert.Empty(t, terminals)

	terminals, err = decodeTerminals("[]")
	require.NoError(t, err)
	assert.Empty(t, terminals)
}

func TestDecodeTerminalsInvalidJSON(t *testing.T) {
	_, err := decodeTerminals("{not json")
	assert.Error(t, err)
}

func TestFormatReport(t *testing.T) {
	report := formatReport([]reconnectedTerminal{
		{Host: "192.168.1.1", GroupName: "Router"},
		{Host: "192.168.1.2"},
		{},
	})
	assert.Contains(t, report, "3 device(s) back online")
	assert.Contains(t, report, "  - 192.168.1.1 (Router)\n")
	assert.Contains(t, report, "  - 192.168.1.2\n")
	assert.Contains(t, report, "  - unknown\n")
}
