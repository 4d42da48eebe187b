// Package terminal provides the tracker's user-facing collaborators for a
// text terminal: notifications, the system clipboard and the web browser.
package terminal

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/justsurfingit/outreach-tracker/internal/tracker"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	destructiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle       = lipgloss.NewStyle().Faint(true)
)

// Notifier prints notifications as single lines.
type Notifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

func (n *Notifier) Notify(note tracker.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	style := titleStyle
	if note.Destructive {
		style = destructiveStyle
	}
	fmt.Fprintf(n.out, "%s %s\n", style.Render(note.Title), mutedStyle.Render(note.Description))
}

// Clipboard writes to the system clipboard.
type Clipboard struct{}

func (Clipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Browser opens URLs with the platform's default handler.
type Browser struct {
	// Disabled makes Open print the URL instead.
	Disabled bool
	Out      io.Writer
}

func (b Browser) Open(url string) error {
	if b.Disabled {
		if b.Out != nil {
			fmt.Fprintf(b.Out, "Open: %s\n", url)
		}
		return nil
	}
	name, args := openCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Start()
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
