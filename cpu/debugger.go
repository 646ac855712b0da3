package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/Stasiu51/RISCMachine/mask"
)

const wordsPerRow = 8

type model struct {
	cpu *Cpu

	prevPC uint16
	error  error
}

// Init performs no work: the host is responsible for having loaded the
// program image into Cpu.Mem and set Cpu.Regs.PC before calling Debug.
func (m model) Init() tea.Cmd {
	return nil
}

// Update advances the simulated Cpu by one instruction each time space or n
// is pressed, and quits on q; other keys are ignored.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit

		case " ", "n":
			m.prevPC = m.cpu.Regs.PC
			if err := m.cpu.Step(); err != nil {
				m.error = err
				return m, tea.Quit
			}
			if !m.cpu.Regs.Running {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// renderRow renders wordsPerRow consecutive RAM cells as a line, with the
// current PC highlighted.
func (m model) renderRow(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < wordsPerRow; i++ {
		addr := start + i
		w := m.cpu.Mem.PeekRAM(addr)
		if addr == m.cpu.Regs.PC {
			s += fmt.Sprintf("[%08x] ", w)
		} else {
			s += fmt.Sprintf(" %08x  ", w)
		}
	}
	return s
}

// memoryWindow renders a handful of rows around the current PC.
func (m model) memoryWindow() string {
	base := (m.cpu.Regs.PC / wordsPerRow) * wordsPerRow
	rows := []string{"addr | " + strings.TrimSpace(strings.Repeat("word     ", wordsPerRow))}
	for i := -2; i <= 2; i++ {
		row := int(base) + i*wordsPerRow
		if row < 0 {
			continue
		}
		rows = append(rows, m.renderRow(uint16(row)))
	}
	return strings.Join(rows, "\n")
}

func (m model) statusBits() string {
	var b strings.Builder
	for i := 0; i < numStatusRegisters; i++ {
		if m.cpu.Regs.S(uint8(i)) {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
	}
	return b.String()
}

func (m model) registers() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PC: %04x (prev %04x)\nrunning: %v\n\n", m.cpu.Regs.PC, m.prevPC, m.cpu.Regs.Running)
	for i := 0; i < numDataRegisters; i += 4 {
		fmt.Fprintf(&b, "r%-2d %08x  r%-2d %08x  r%-2d %08x  r%-2d %08x\n",
			i, m.cpu.Regs.R(uint8(i)),
			i+1, m.cpu.Regs.R(uint8(i+1)),
			i+2, m.cpu.Regs.R(uint8(i+2)),
			i+3, m.cpu.Regs.R(uint8(i+3)),
		)
	}
	fmt.Fprintf(&b, "\nS: %s", m.statusBits())
	return b.String()
}

// View renders the page-table-style memory window, the register file, and a
// decoded dump of the instruction at PC via spew.Sdump.
func (m model) View() string {
	decoded := mask.Decode(m.cpu.Mem.PeekRAM(m.cpu.Regs.PC))
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.memoryWindow(),
			"   "+m.registers(),
		),
		"",
		spew.Sdump(decoded),
	)
}

// Debug starts an interactive single-step TUI over c. The caller must have
// already loaded a program image and positioned Cpu.Regs.PC.
func Debug(c *Cpu) error {
	p, err := tea.NewProgram(model{cpu: c}).Run()
	if err != nil {
		return err
	}
	if final, ok := p.(model); ok && final.error != nil {
		return final.error
	}
	return nil
}
