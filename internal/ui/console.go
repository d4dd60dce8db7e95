package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/fundme/internal/dapp"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
)

// Page is the action surface the console drives.
type Page interface {
	Init(ctx context.Context) error
	Connect(ctx context.Context) (common.Address, error)
	Fund(ctx context.Context, amount string) error
	Balance(ctx context.Context) (string, error)
	Withdraw(ctx context.Context) error
	State() dapp.State
}

// ConsoleInfo is the static header of the console.
type ConsoleInfo struct {
	Network  string
	Contract string
	Symbol   string
}

const maxActivity = 6

// actionDoneMsg reports one finished action cycle.
type actionDoneMsg struct {
	control dapp.Control
	result  string
	err     error
}

type initDoneMsg struct{ err error }

type consoleTickMsg struct{}

// ConsoleModel is the Bubble Tea model for the FundMe console: four buttons,
// one amount input and the status and balance labels. Every press starts its
// own action cycle; presses are not de-duplicated.
type ConsoleModel struct {
	ctx  context.Context
	page Page
	info ConsoleInfo

	state    dapp.State
	input    string
	focus    int // index into dapp.Controls
	running  int
	frame    int
	activity []string
	Quitting bool
}

// NewConsole creates the console model. ctx bounds every action it starts.
func NewConsole(ctx context.Context, page Page, info ConsoleInfo) ConsoleModel {
	if info.Symbol == "" {
		info.Symbol = "ETH"
	}
	return ConsoleModel{
		ctx:   ctx,
		page:  page,
		info:  info,
		state: page.State(),
		focus: 1,
	}
}

// RunConsole runs the console full screen until the user quits or ctx ends.
func RunConsole(ctx context.Context, page Page, info ConsoleInfo) error {
	p := tea.NewProgram(NewConsole(ctx, page, info), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func consoleTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return consoleTickMsg{}
	})
}

func (m ConsoleModel) Init() tea.Cmd {
	page, ctx := m.page, m.ctx
	return tea.Batch(consoleTick(), func() tea.Msg {
		return initDoneMsg{err: page.Init(ctx)}
	})
}

func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case consoleTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, consoleTick()

	case initDoneMsg:
		m.state = m.page.State()
		if msg.err != nil && !errors.Is(msg.err, dapp.ErrNoProvider) {
			m.log(Err(trimErr(msg.err.Error())))
		}

	case actionDoneMsg:
		if m.running > 0 {
			m.running--
		}
		m.state = m.page.State()
		m.log(describe(msg))
	}

	return m, nil
}

func (m ConsoleModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		m.Quitting = true
		return m, tea.Quit

	case "tab", "right":
		m.focus = (m.focus + 1) % len(dapp.Controls)
	case "shift+tab", "left":
		m.focus = (m.focus + len(dapp.Controls) - 1) % len(dapp.Controls)

	case "enter", " ":
		return m.press(dapp.Controls[m.focus])
	case "c":
		return m.press(dapp.ControlConnect)
	case "f":
		return m.press(dapp.ControlFund)
	case "b":
		return m.press(dapp.ControlBalance)
	case "w":
		return m.press(dapp.ControlWithdraw)

	case "backspace":
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}

	default:
		if isAmountKey(key) {
			m.input += key
		}
	}
	return m, nil
}

// press starts one action cycle unless the control is disabled.
func (m ConsoleModel) press(c dapp.Control) (tea.Model, tea.Cmd) {
	if m.state.Disabled[c] {
		return m, nil
	}
	m.running++

	page, ctx, amount := m.page, m.ctx, m.input
	return m, func() tea.Msg {
		done := actionDoneMsg{control: c}
		switch c {
		case dapp.ControlConnect:
			var addr common.Address
			addr, done.err = page.Connect(ctx)
			done.result = addr.Hex()
		case dapp.ControlFund:
			done.err = page.Fund(ctx, amount)
			done.result = amount
		case dapp.ControlBalance:
			done.result, done.err = page.Balance(ctx)
		case dapp.ControlWithdraw:
			done.err = page.Withdraw(ctx)
		}
		return done
	}
}

func (m *ConsoleModel) log(line string) {
	stamp := StyleMeta.Render(time.Now().Format("15:04:05"))
	m.activity = append(m.activity, stamp+" "+line)
	if len(m.activity) > maxActivity {
		m.activity = m.activity[len(m.activity)-maxActivity:]
	}
}

func describe(msg actionDoneMsg) string {
	if msg.err != nil {
		if errors.Is(msg.err, dapp.ErrEmptyAmount) || errors.Is(msg.err, dapp.ErrAmountTooLow) {
			return Warn(trimErr(msg.err.Error()))
		}
		return Err(fmt.Sprintf("%s: %s", msg.control, trimErr(msg.err.Error())))
	}
	switch msg.control {
	case dapp.ControlConnect:
		return Success("Connected " + TruncateAddr(msg.result))
	case dapp.ControlFund:
		return Success("Fund done! (" + msg.result + ")")
	case dapp.ControlBalance:
		return Info("The current balance is: " + msg.result)
	case dapp.ControlWithdraw:
		return Success("Withdraw done!")
	}
	return ""
}

func (m ConsoleModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder

	title := "FundMe"
	if m.info.Network != "" {
		title += "  ·  " + m.info.Network
	}
	sb.WriteString(StyleTitle.Render(title) + "\n")
	if m.info.Contract != "" {
		sb.WriteString(StyleMeta.Render("  contract ") + Addr(m.info.Contract) + "\n\n")
	}

	buttons := make([]string, len(dapp.Controls))
	for i, c := range dapp.Controls {
		buttons[i] = m.button(i, c)
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...) + "\n")

	cursor := " "
	if m.frame%2 == 0 {
		cursor = "█"
	}
	sb.WriteString(StyleMeta.Render("  amount ") + StyleInput.Render(m.input+cursor) + StyleMeta.Render(" "+m.info.Symbol) + "\n\n")

	status := Val(m.state.ConnectLabel)
	if m.state.Account != (common.Address{}) {
		status += "  " + Addr(m.state.Account.Hex())
	}
	sb.WriteString(StyleMeta.Render("  status  ") + status + "\n")

	balance := StyleMeta.Render("-")
	if m.state.Balance != "" {
		balance = Val(m.state.Balance) + " " + StyleMeta.Render(m.info.Symbol)
	}
	sb.WriteString(StyleMeta.Render("  balance ") + balance)
	if m.running > 0 {
		sb.WriteString("  " + StyleChain.Render(spinnerFrame(m.frame)) + StyleMeta.Render(fmt.Sprintf(" %d running", m.running)))
	}
	sb.WriteString("\n\n")

	for _, line := range m.activity {
		sb.WriteString("  " + line + "\n")
	}
	if len(m.activity) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(consoleControls())
	sb.WriteString("\n")
	return sb.String()
}

func (m ConsoleModel) button(i int, c dapp.Control) string {
	label := buttonLabel(c, m.state)
	switch {
	case m.state.Disabled[c]:
		return StyleButtonDisabled.Render(label)
	case i == m.focus:
		return StyleButtonFocused.Render(label)
	default:
		return StyleButton.Render(label)
	}
}

func buttonLabel(c dapp.Control, s dapp.State) string {
	switch c {
	case dapp.ControlConnect:
		if s.ConnectLabel != "" {
			return s.ConnectLabel
		}
		return dapp.LabelConnect
	case dapp.ControlFund:
		return "Fund"
	case dapp.ControlBalance:
		return "Get Balance"
	case dapp.ControlWithdraw:
		return "Withdraw"
	}
	return string(c)
}

func consoleControls() string {
	sep := StyleMeta.Render("   ")
	keys := []struct{ key, desc string }{
		{"c", "connect"},
		{"f", "fund"},
		{"b", "balance"},
		{"w", "withdraw"},
		{"tab ↵", "select"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = StyleWarning.Render("[ "+k.key+" ]") + StyleMeta.Render(" "+k.desc)
	}
	return strings.Join(parts, sep)
}

func isAmountKey(key string) bool {
	if len(key) != 1 {
		return false
	}
	return key == "." || (key[0] >= '0' && key[0] <= '9')
}

// trimErr keeps activity lines on one row.
func trimErr(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	const limit = 80
	if r := []rune(s); len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return s
}
