package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // confirmed, connected
	ColorWarning   = lipgloss.Color("#FFB800") // dropped input, pending
	ColorError     = lipgloss.Color("#FF4444")
	ColorAddress   = lipgloss.Color("#00B4D8") // addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF")
	ColorMeta      = lipgloss.Color("#555555")
	ColorBorder    = lipgloss.Color("#1E3A5F")
	ColorChain     = lipgloss.Color("#9B5DE5") // network names, titles
	ColorHighlight = lipgloss.Color("#F15BB5") // focused control
	ColorDisabled  = lipgloss.Color("#3A3A3A")
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	StyleSelected = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)

	StyleButton = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2)

	StyleButtonFocused = StyleButton.
				BorderForeground(ColorHighlight).
				Foreground(ColorHighlight).
				Bold(true)

	StyleButtonDisabled = StyleButton.
				BorderForeground(ColorDisabled).
				Foreground(ColorDisabled).
				Strikethrough(true)

	StyleInput = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorBorder).
			Width(24)
)

// Banner returns the fundme banner.
func Banner() string {
	art := `
  ┌─┐┬ ┬┌┐┌┌┬┐┌┬┐┌─┐
  ├┤ │ ││││ ││││├┤ 
  └  └─┘┘└┘─┴┘┴ ┴└─┘`

	tagline := StyleMeta.Render("  fund · balance · withdraw")
	return StyleChain.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats a neutral progress message.
func Info(msg string) string { return StyleAddress.Render("› " + msg) }

// Hint formats a suggestion for what to run next.
func Hint(msg string) string { return StyleMeta.Render("  hint: " + msg) }

func Addr(a string) string { return StyleAddress.Render(a) }

func Val(v string) string { return StyleValue.Render(v) }

func Meta(m string) string { return StyleMeta.Render(m) }

func ChainName(c string) string { return StyleChain.Render(c) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
