package style

import (
	"os"

	"github.com/pterm/pterm"
)

// Status classifies a rendered line for marker and color selection.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
	StatusSkipped Status = "skipped"
	StatusPending Status = "pending"
	StatusInfo    Status = "info"
)

// StatusStyle returns the pterm style for a status.
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StatusError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case StatusWarning:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case StatusPending:
		return pterm.NewStyle(pterm.FgCyan)
	case StatusInfo:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Marker returns the single-character prefix for a status line.
func Marker(status Status) string {
	switch status {
	case StatusSuccess:
		return "✓"
	case StatusError:
		return "✗"
	case StatusWarning:
		return "!"
	case StatusSkipped:
		return "-"
	case StatusPending:
		return "·"
	default:
		return " "
	}
}

// StatusLine renders "<marker> <text>" with the status's style applied to
// the marker only, keeping the text copy-paste friendly.
func StatusLine(status Status, text string) string {
	marker := Marker(status)
	if IsTerminal(os.Stdout) {
		marker = StatusStyle(status).Sprint(marker)
	}
	return marker + " " + text
}
