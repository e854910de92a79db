package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Choice is the menu option the operator picked.
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceRun
	ChoiceConfigure
	ChoiceShowSettings
	ChoiceHelp
	ChoiceVerify
	ChoiceExit
)

type option struct {
	key    string
	label  string
	choice Choice
}

var options = []option{
	{"1", "Iniciar processamento com configurações padrão", ChoiceRun},
	{"2", "Configurar o processamento", ChoiceConfigure},
	{"3", "Verificar configurações atuais", ChoiceShowSettings},
	{"4", "Ajuda", ChoiceHelp},
	{"5", "Verificar arquivo Excel", ChoiceVerify},
	{"0", "Sair", ChoiceExit},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)
	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

const bannerWidth = 50

type menuModel struct {
	cursor  int
	choice  Choice
	message string
}

func newMenuModel() menuModel {
	return menuModel{}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.choice = ChoiceExit
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.message = ""
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
		m.message = ""
	case "enter":
		m.choice = options[m.cursor].choice
		return m, tea.Quit
	default:
		if key.Type != tea.KeyRunes {
			return m, nil
		}
		for i, opt := range options {
			if opt.key == string(key.Runes) {
				m.cursor = i
				m.choice = opt.choice
				return m, tea.Quit
			}
		}
		m.message = "Opção inválida. Tente novamente."
	}
	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder

	b.WriteString(banner())
	b.WriteString("\nOPÇÕES:\n")

	for i, opt := range options {
		line := fmt.Sprintf("%s. %s", opt.key, opt.label)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(normalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑↓: navegar | Enter ou 0-5: escolher | q: sair"))
	b.WriteString("\n")
	return b.String()
}

func banner() string {
	rule := ruleStyle.Render(strings.Repeat("=", bannerWidth))
	title := titleStyle.Width(bannerWidth).Align(lipgloss.Center).Render("SKY LABS PHOTOSHOP")
	return strings.Join([]string{
		rule,
		title,
		rule,
		"Automação de edição de camada de texto e exportação PNG",
		rule,
	}, "\n") + "\n"
}

// Choose shows the main menu and returns the option picked.
func Choose(opts ...tea.ProgramOption) (Choice, error) {
	p := tea.NewProgram(newMenuModel(), opts...)
	final, err := p.Run()
	if err != nil {
		return ChoiceNone, fmt.Errorf("error running menu: %w", err)
	}
	return final.(menuModel).choice, nil
}
