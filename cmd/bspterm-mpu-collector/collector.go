package main

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	bspterm "github.com/bspterm/bspterm-go"
)

type collector struct {
	client *bspterm.Client
	cfg    config
	log    *zap.Logger
}

func (c *collector) run() error {
	term, err := c.client.CurrentTerminal()
	if err != nil {
		return err
	}

	group, err := c.client.CurrentGroup(term.ID)
	if err != nil {
		return err
	}
	if group.GroupID == nil {
		c.client.Toast("Current terminal does not belong to any session group", bspterm.ToastError)
		return fmt.Errorf("terminal %s is not in a session group", term.ID)
	}

	// Clone into a new pane so the operator's own terminal stays untouched.
	// The clone runs the group's auto-login rules, so wait them out.
	right, err := c.client.SplitRightClone(term.ID, &bspterm.SplitOptions{WaitForLogin: true})
	if err != nil {
		return err
	}

	if _, err := right.SendCmd("screen-length 0 temporary", nil); err != nil {
		return err
	}

	deviceOutput, err := right.SendCmd("display device", nil)
	if err != nil {
		return err
	}

	slotRe, err := regexp.Compile("(?i)" + c.cfg.SlotPattern)
	if err != nil {
		return fmt.Errorf("invalid slot_pattern: %w", err)
	}
	slots := parseMPUSlots(deviceOutput, slotRe)
	if len(slots) == 0 {
		c.client.Toast("No MPU boards found", bspterm.ToastWarning)
		return nil
	}
	c.log.Info("found MPU slots", zap.Strings("slots", slots))

	// VRP diagnose mode uses bracketed prompts instead of the default shell
	// prompt, so each step names its own pattern.
	if _, err := right.SendCmd("sys", &bspterm.RunOptions{PromptPattern: `\[.*\]`}); err != nil {
		return err
	}
	if _, err := right.SendCmd("diagnose", &bspterm.RunOptions{PromptPattern: `\[.*-diagnose\]`}); err != nil {
		return err
	}

	var failed []string
	added := 0
	for _, slot := range slots {
		ip, err := c.slotAddress(right, slot)
		if err != nil || ip == "" {
			if err != nil {
				c.log.Warn("slot query failed", zap.String("slot", slot), zap.Error(err))
			}
			failed = append(failed, slot)
			continue
		}

		name := fmt.Sprintf("Slot%s-%s", slot, ip)
		_, err = c.client.AddSSHToGroup(*group.GroupID, name, bspterm.SSHConfig{
			Host:     ip,
			Port:     c.cfg.SSH.Port,
			Username: c.cfg.SSH.Username,
			Password: c.cfg.SSH.Password,
		})
		if err != nil {
			c.log.Warn("failed to add session", zap.String("slot", slot), zap.Error(err))
			failed = append(failed, slot)
			continue
		}
		added++
	}

	if _, err := right.SendCmd("return", nil); err != nil {
		c.log.Warn("failed to leave diagnose mode", zap.Error(err))
	}

	if len(failed) > 0 {
		c.client.Toast("Failed slots: "+strings.Join(failed, ", "), bspterm.ToastError)
	}
	if added > 0 {
		c.client.Toast(fmt.Sprintf("Added %d SSH sessions", added), bspterm.ToastSuccess)
	}
	return nil
}

// slotAddress queries one board's ifconfig output and extracts its eth0/eth1
// management address.
func (c *collector) slotAddress(term *bspterm.Terminal, slot string) (string, error) {
	timeout, err := c.cfg.commandTimeout()
	if err != nil {
		return "", err
	}
	output, err := term.SendCmd(fmt.Sprintf(`shell slot %s "ifconfig"`, slot), &bspterm.RunOptions{
		Timeout:       timeout,
		PromptPattern: `\[.*-diagnose\]`,
	})
	if err != nil {
		return "", err
	}
	return parseInterfaceIP(output), nil
}
