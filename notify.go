package bspterm

// ToastLevel selects the visual style of a toast notification.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastWarning ToastLevel = "warning"
	ToastError   ToastLevel = "error"
)

// Toast shows a notification in the host application.
func (c *Client) Toast(message string, level ToastLevel) error {
	if level == "" {
		level = ToastInfo
	}
	_, err := c.call("notify.toast", map[string]any{
		"message": message,
		"level":   string(level),
	})
	return err
}
