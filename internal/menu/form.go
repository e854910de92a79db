package menu

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/miguelfrancaalves/autotextopsd/internal/config"
)

type field struct {
	label string
	def   string
	value []rune
}

const (
	fieldExcel = iota
	fieldLayer
	fieldOutput
	fieldQuality
)

// formModel asks for each run setting in turn. An empty answer keeps the
// value shown as default.
type formModel struct {
	base      config.RunConfig
	fields    []field
	focus     int
	submitted bool
	cancelled bool
}

func newFormModel(base config.RunConfig) formModel {
	return formModel{
		base: base,
		fields: []field{
			fieldExcel:   {label: "Nome do arquivo Excel", def: base.ExcelFile},
			fieldLayer:   {label: "Nome da camada de texto", def: base.LayerName},
			fieldOutput:  {label: "Pasta para salvar as imagens", def: base.OutputDir},
			fieldQuality: {label: "Qualidade da exportação (1-100)", def: strconv.Itoa(base.Quality)},
		},
	}
}

func (m formModel) Init() tea.Cmd {
	return nil
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyTab, tea.KeyDown:
		if m.focus == len(m.fields)-1 {
			if key.Type == tea.KeyEnter {
				m.submitted = true
				return m, tea.Quit
			}
			return m, nil
		}
		m.focus++
	case tea.KeyShiftTab, tea.KeyUp:
		if m.focus > 0 {
			m.focus--
		}
	case tea.KeyBackspace:
		f := &m.fields[m.focus]
		if len(f.value) > 0 {
			f.value = f.value[:len(f.value)-1]
		}
	case tea.KeySpace:
		f := &m.fields[m.focus]
		f.value = append(f.value, ' ')
	case tea.KeyRunes:
		f := &m.fields[m.focus]
		f.value = append(f.value, key.Runes...)
	}
	return m, nil
}

func (m formModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("=== CONFIGURAÇÕES DE PROCESSAMENTO ==="))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		prompt := fmt.Sprintf("%s (padrão: %s): ", f.label, f.def)
		if i == m.focus {
			b.WriteString(selectedStyle.Render(prompt + string(f.value) + "_"))
		} else {
			b.WriteString(normalStyle.Render(prompt + string(f.value)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter: próximo/confirmar | ↑↓: mudar campo | Esc: cancelar"))
	b.WriteString("\n")
	return b.String()
}

func (m formModel) answers() []string {
	answers := make([]string, len(m.fields))
	for i, f := range m.fields {
		answers[i] = string(f.value)
	}
	return answers
}

// ApplyAnswers builds a run configuration from base and the operator's
// answers, in field order: excel file, layer, output folder, quality. Blank
// answers keep the base value. An unusable quality falls back to the
// default and is reported in notices.
func ApplyAnswers(base config.RunConfig, answers []string) (cfg config.RunConfig, notices []string) {
	cfg = base
	get := func(i int) string {
		if i < len(answers) {
			return strings.TrimSpace(answers[i])
		}
		return ""
	}

	if v := get(fieldExcel); v != "" {
		cfg.ExcelFile = v
	}
	if v := get(fieldLayer); v != "" {
		cfg.LayerName = v
	}
	if v := get(fieldOutput); v != "" {
		cfg.OutputDir = v
	}
	if v := get(fieldQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			notices = append(notices, "Valor inválido. Usando qualidade padrão.")
			q = config.DefaultQuality
		}
		cfg.Quality = q
	}
	return cfg, notices
}

// Configure runs the settings form. ok is false when the operator cancelled,
// in which case base is returned unchanged.
func Configure(base config.RunConfig, opts ...tea.ProgramOption) (cfg config.RunConfig, notices []string, ok bool, err error) {
	p := tea.NewProgram(newFormModel(base), opts...)
	final, err := p.Run()
	if err != nil {
		return base, nil, false, fmt.Errorf("error running settings form: %w", err)
	}

	form := final.(formModel)
	if !form.submitted {
		return base, nil, false, nil
	}
	cfg, notices = ApplyAnswers(base, form.answers())
	return cfg, notices, true, nil
}
