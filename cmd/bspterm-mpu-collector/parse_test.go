package main

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSlotRe = regexp.MustCompile("(?i)" + defaultSlotPattern)

func TestParseMPUSlots(t *testing.T) {
	output := `
Device status:
---------------------------------------------------
Slot  Sub  Type              Online   Power    Register     Status   Role
---------------------------------------------------
17    -    LPU               Present  PowerOn  Registered   Normal   NA
21    -    MPU               Present  PowerOn  Registered   Normal   Master
22    -    MPU               Present  PowerOn  Registered   Normal   Slave
clc1/21  -  MPU              Present  PowerOn  Registered   Normal   NA
---------------------------------------------------
`
	slots := parseMPUSlots(output, testSlotRe)
	assert.Equal(t, []string{"21", "22", "clc1/21"}, slots)
}

func TestParseMPUSlotsEmptyOutput(t *testing.T) {
	assert.Empty(t, parseMPUSlots("", testSlotRe))
	assert.Empty(t, parseMPUSlots("no boards here\n", testSlotRe))
}

func TestParseInterfaceIP(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name: "inet addr dialect",
			output: `eth0      Link encap:Ethernet  HWaddr 00:11:22:33:44:55
          inet addr:192.168.10.21  Bcast:192.168.10.255  Mask:255.255.255.0`,
			want: "192.168.10.21",
		},
		{
			name: "bare inet dialect",
			output: `eth1: flags=4163<UP,BROADCAST,RUNNING,MULTICAST>
        inet 10.1.0.22  netmask 255.255.0.0`,
			want: "10.1.0.22",
		},
		{
			name:   "no management interface",
			output: "lo        inet addr:127.0.0.1",
			want:   "",
		},
		{
			name:   "empty output",
			output: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseInterfaceIP(tt.output))
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := t.TempDir() + "/collector.yaml"
	data := []byte("ssh:\n  username: operator\n  password: hunter2\n  port: 2022\ncommand_timeout: 30s\n")
	assert.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := loadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "operator", cfg.SSH.Username)
	assert.Equal(t, "hunter2", cfg.SSH.Password)
	assert.Equal(t, 2022, cfg.SSH.Port)
	assert.Equal(t, defaultSlotPattern, cfg.SlotPattern, "unset fields keep defaults")

	timeout, err := cfg.commandTimeout()
	assert.NoError(t, err)
	assert.Equal(t, 30.0, timeout.Seconds())
}

func TestLoadConfigInvalidTimeout(t *testing.T) {
	path := t.TempDir() + "/collector.yaml"
	assert.NoError(t, os.WriteFile(path, []byte("command_timeout: soon\n"), 0o600))
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	assert.NoError(t, err)
	assert.Equal(t, "root", cfg.SSH.Username)
	assert.Equal(t, 22, cfg.SSH.Port)
	assert.Equal(t, defaultSlotPattern, cfg.SlotPattern)

	timeout, err := cfg.commandTimeout()
	assert.NoError(t, err)
	assert.Equal(t, "10s", cfg.CommandTimeout)
	assert.Equal(t, timeout.Seconds(), 10.0)
}
