package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"

	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
)

// CopiedMessage is the status line shown after a successful copy
const CopiedMessage = "已复制到剪贴板"

// Writer writes text to a clipboard
type Writer interface {
	WriteAll(text string) error
}

// ClipboardError represents an error when no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a new ClipboardError with helpful installation instructions
func NewClipboardError() *ClipboardError {
	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: "no clipboard utility found. " + GetInstallInstructions(),
	}
}

// System writes to the operating system clipboard. It tries the native
// clipboard library first, then the platform's command line utilities, and
// finally an OSC52 escape sequence when OSC52 is enabled (useful over SSH).
type System struct {
	OSC52    bool
	Terminal io.Writer // OSC52 destination, os.Stderr when nil
}

// NewSystem creates the system clipboard writer
func NewSystem(osc52Fallback bool) *System {
	return &System{OSC52: osc52Fallback}
}

// WriteAll implements Writer
func (s *System) WriteAll(text string) error {
	if !atotto.Unsupported {
		if err := atotto.WriteAll(text); err == nil {
			return nil
		}
	}

	err := Copy(text)
	if err == nil {
		return nil
	}

	if s.OSC52 {
		out := s.Terminal
		if out == nil {
			out = os.Stderr
		}
		if _, oscErr := osc52.New(text).WriteTo(out); oscErr == nil {
			return nil
		}
	}
	return Classify(err)
}

// Copy copies text to the system clipboard with command line utilities
func Copy(text string) error {
	switch runtime.GOOS {
	case "darwin":
		return run("pbcopy", nil, text)
	case "linux":
		return copyLinux(text)
	case "windows":
		return run("cmd", []string{"/c", "clip"}, text)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func run(name string, args []string, text string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// copyLinux tries xclip, xsel and wl-copy in turn
func copyLinux(text string) error {
	candidates := []struct {
		name string
		args []string
	}{
		{"xclip", []string{"-selection", "clipboard"}},
		{"xsel", []string{"--clipboard", "--input"}},
		{"wl-copy", nil},
	}

	var lastErr error
	for _, c := range candidates {
		if !isCommandAvailable(c.name) {
			continue
		}
		if err := run(c.name, c.args, text); err != nil {
			lastErr = fmt.Errorf("%s failed: %w", c.name, err)
			continue
		}
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("clipboard utilities available but failed: %w", lastErr)
	}
	return NewClipboardError()
}

// isCommandAvailable checks if a command is available in PATH
func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// CopyWithFallback copies text through w and returns the status message
func CopyWithFallback(w Writer, text string) (string, error) {
	if err := w.WriteAll(text); err != nil {
		return "", Classify(err)
	}
	return CopiedMessage, nil
}

// Classify turns a clipboard failure into an application error. A missing
// utility is reported with install instructions.
func Classify(err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	var clipErr *ClipboardError
	if errors.As(err, &clipErr) {
		return apperrors.ClipboardUnavailable(err).WithDetails(GetInstallInstructions())
	}
	return apperrors.ClipboardFailure(err)
}

// IsClipboardAvailable checks if clipboard functionality is available
func IsClipboardAvailable() bool {
	if !atotto.Unsupported {
		return true
	}
	switch runtime.GOOS {
	case "darwin":
		return isCommandAvailable("pbcopy")
	case "linux":
		return isCommandAvailable("xclip") || isCommandAvailable("xsel") || isCommandAvailable("wl-copy")
	case "windows":
		return true
	default:
		return false
	}
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard\n" +
			"  • Over SSH: set osc52 = true in config.toml"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}
