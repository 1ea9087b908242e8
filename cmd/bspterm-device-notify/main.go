// Command bspterm-device-notify is invoked by the host application when
// disconnected devices come back online. It reads the reconnected-terminal
// list from BSPTERM_RECONNECTED_TERMINALS, prints a report, optionally
// forwards it to a webhook, and raises a toast in the application.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	bspterm "github.com/bspterm/bspterm-go"
	"github.com/bspterm/bspterm-go/internal/logging"
)

type notifyConfig struct {
	// Terminals is a JSON array of reconnected-terminal records, set by the
	// host application before launching this command.
	Terminals string `envconfig:"BSPTERM_RECONNECTED_TERMINALS"`
	// WebhookURL, when set, receives a POST with the report text.
	WebhookURL     string        `envconfig:"BSPTERM_NOTIFY_WEBHOOK"`
	WebhookTimeout time.Duration `envconfig:"BSPTERM_NOTIFY_WEBHOOK_TIMEOUT" default:"10s"`
}

type reconnectedTerminal struct {
	TerminalID string `json:"terminal_id"`
	Host       string `json:"host"`
	GroupID    string `json:"group_id"`
	GroupName  string `json:"group_name"`
}

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.NewDevelopment()
	defer logger.Sync()

	var cfg notifyConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return 1
	}

	terminals, err := decodeTerminals(cfg.Terminals)
	if err != nil {
		logger.Error("invalid BSPTERM_RECONNECTED_TERMINALS", zap.Error(err))
		return 1
	}
	if len(terminals) == 0 {
		fmt.Println("No terminals reconnected")
		return 0
	}

	report := formatReport(terminals)
	fmt.Print(report)

	if cfg.WebhookURL != "" {
		if err := postWebhook(cfg, report); err != nil {
			logger.Warn("webhook delivery failed", zap.String("url", cfg.WebhookURL), zap.Error(err))
		}
	}

	if err := toastSummary(len(terminals)); err != nil {
		logger.Warn("toast failed", zap.Error(err))
	}
	return 0
}

func decodeTerminals(raw string) ([]reconnectedTerminal, error) {
	if raw == "" {
		raw = "[]"
	}
	var terminals []reconnectedTerminal
	if err := sonic.Unmarshal([]byte(raw), &terminals); err != nil {
		return nil, err
	}
	return terminals, nil
}

func formatReport(terminals []reconnectedTerminal) string {
	report := fmt.Sprintf("=== %d device(s) back online ===\n", len(terminals))
	for _, t := range terminals {
		host := t.Host
		if host == "" {
			host = "unknown"
		}
		if t.GroupName != "" {
			report += fmt.Sprintf("  - %s (%s)\n", host, t.GroupName)
		} else {
			report += fmt.Sprintf("  - %s\n", host)
		}
	}
	return report
}

func postWebhook(cfg notifyConfig, report string) error {
	client := resty.New().SetTimeout(cfg.WebhookTimeout)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"text": report}).
		Post(cfg.WebhookURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned %s", resp.Status())
	}
	return nil
}

func toastSummary(count int) error {
	client, err := bspterm.New()
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Toast(fmt.Sprintf("%d device(s) back online", count), bspterm.ToastSuccess)
}
