package main

import (
	"regexp"
	"strings"
)

// ipPatterns match the two ifconfig dialects seen on NE5000E boards:
// "inet addr:10.0.0.1" on older builds, "inet 10.0.0.1" on newer ones.
var ipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)eth[01].*?inet addr:(\d+\.\d+\.\d+\.\d+)`),
	regexp.MustCompile(`(?is)eth[01].*?inet\s+(\d+\.\d+\.\d+\.\d+)`),
}

// parseMPUSlots extracts slot identifiers from `display device` output.
// Slots come in two forms: a plain number ("21") or chassis-qualified
// ("clc1/21").
func parseMPUSlots(output string, slotRe *regexp.Regexp) []string {
	var slots []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		if match := slotRe.FindStringSubmatch(line); match != nil {
			slots = append(slots, match[1])
		}
	}
	return slots
}

// parseInterfaceIP extracts the first eth0/eth1 address from ifconfig
// output, or "" when none is present.
func parseInterfaceIP(output string) string {
	for _, re := range ipPatterns {
		if match := re.FindStringSubmatch(output); match != nil {
			return match[1]
		}
	}
	return ""
}
