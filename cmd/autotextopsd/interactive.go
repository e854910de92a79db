package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/miguelfrancaalves/autotextopsd/internal/batch"
	"github.com/miguelfrancaalves/autotextopsd/internal/config"
	"github.com/miguelfrancaalves/autotextopsd/internal/logger"
	"github.com/miguelfrancaalves/autotextopsd/internal/menu"
)

// session holds the state of one interactive run of the program. The menu,
// form and runner are fields so the dispatch loop can be driven without a
// terminal.
type session struct {
	path string
	cfg  *config.Config
	out  io.Writer
	in   io.Reader

	choose    func() (menu.Choice, error)
	configure func(base config.RunConfig) (config.RunConfig, []string, bool, error)
	newRunner func(out io.Writer) *batch.Runner
}

// runInteractive loops over the menu until the operator picks exit. It
// returns the process exit code.
func runInteractive(path string) int {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		red.Fprintf(os.Stderr, "Erro ao carregar configuração: %v\n", err)
		cfg = config.Default()
	}
	if err := logger.Setup(cfg.Log.Directory, logger.ParseLevel(cfg.Log.Level)); err != nil {
		fmt.Fprintf(os.Stderr, "Aviso: log desativado: %v\n", err)
	}
	defer logger.Close()

	s := &session{
		path:   path,
		cfg:    cfg,
		out:    os.Stdout,
		in:     os.Stdin,
		choose: func() (menu.Choice, error) { return menu.Choose() },
		configure: func(base config.RunConfig) (config.RunConfig, []string, bool, error) {
			return menu.Configure(base)
		},
		newRunner: batch.NewRunner,
	}
	return s.loop()
}

func (s *session) loop() int {
	logger.Info("Interactive session started")

	for {
		choice, err := s.choose()
		if err != nil {
			red.Fprintf(s.out, "Erro: %v\n", err)
			return 1
		}
		if !s.dispatch(choice) {
			fmt.Fprintln(s.out, "\nPrograma finalizado. Obrigado por usar!")
			logger.Info("Interactive session finished")
			return 0
		}
	}
}

// dispatch handles one menu choice and reports whether the session goes on.
func (s *session) dispatch(choice menu.Choice) bool {
	switch choice {
	case menu.ChoiceRun:
		if err := s.cfg.Run.Validate(); err != nil {
			red.Fprintf(s.out, "Erro: %v\n", err)
			return true
		}
		s.newRunner(s.out).Run(s.cfg.Run)
		waitForEnter(s.out, s.in)

	case menu.ChoiceConfigure:
		s.reconfigure()

	case menu.ChoiceShowSettings:
		fmt.Fprint(s.out, "\n"+menu.RenderSettings(s.cfg.Run))

	case menu.ChoiceHelp:
		fmt.Fprint(s.out, "\n"+menu.RenderHelp(s.cfg.Run))

	case menu.ChoiceVerify:
		verifyExcel(s.out, s.cfg.Run)

	case menu.ChoiceExit, menu.ChoiceNone:
		return false
	}
	return true
}

func (s *session) reconfigure() {
	updated, notices, ok, err := s.configure(s.cfg.Run)
	if err != nil {
		red.Fprintf(s.out, "Erro: %v\n", err)
		return
	}
	yellow := color.New(color.FgYellow)
	for _, n := range notices {
		yellow.Fprintln(s.out, n)
	}
	if !ok {
		fmt.Fprintln(s.out, "\nConfiguração cancelada.")
		return
	}

	s.cfg.Run = updated
	if err := config.SaveConfig(s.path, s.cfg); err != nil {
		red.Fprintf(s.out, "Aviso: não foi possível salvar a configuração: %v\n", err)
	}
	color.New(color.FgGreen).Fprintln(s.out, "\nConfiguração concluída!")
}
