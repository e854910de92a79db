package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/miguelfrancaalves/autotextopsd/internal/batch"
	"github.com/miguelfrancaalves/autotextopsd/internal/config"
	"github.com/miguelfrancaalves/autotextopsd/internal/logger"
	"github.com/spf13/cobra"
)

const version = "1.2.0"

var (
	configPath string
	excelFile  string
	layerName  string
	outputDir  string
	quality    int
	silent     bool
)

var red = color.New(color.FgRed)

// reportedError marks failures whose diagnostic was already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func main() {
	// With no arguments at all the operator gets the interactive menu.
	if len(os.Args) < 2 {
		os.Exit(runInteractive(config.DefaultConfigPath))
	}

	if err := newRootCmd().Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			red.Fprintf(os.Stderr, "Erro: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "autotextopsd",
		Short:         "Edita uma camada de texto no Photoshop e exporta um PNG por nome",
		Long:          "Automação de edição de camada de texto e exportação PNG no Photoshop. Lê os nomes da coluna 'nome' de uma planilha e exporta uma imagem por nome, organizada em subpastas pela letra inicial.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExport,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Arquivo de configuração TOML")
	rootCmd.PersistentFlags().StringVarP(&excelFile, "excel", "e", "", "Caminho para o arquivo Excel com a lista de nomes")
	rootCmd.Flags().StringVarP(&layerName, "camada", "c", "", "Nome da camada de texto a ser alterada")
	rootCmd.Flags().StringVarP(&outputDir, "pasta", "p", "", "Pasta para salvar os arquivos exportados")
	rootCmd.Flags().IntVarP(&quality, "qualidade", "q", 0, "Qualidade da exportação (1-100)")
	rootCmd.Flags().BoolVarP(&silent, "silencioso", "s", false, "Modo silencioso (não aguarda Enter no final)")

	verifyCmd := &cobra.Command{
		Use:   "verificar",
		Short: "Verifica o arquivo Excel sem exportar nada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()

			if err := verifyExcel(cmd.OutOrStdout(), cfg.Run); err != nil {
				return &reportedError{err: err}
			}
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "autotextopsd version %s\n", version)
		},
	}

	rootCmd.AddCommand(verifyCmd, versionCmd)
	return rootCmd
}

// loadConfig reads the config file, opens the log file and lets explicitly
// set flags override the file's values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := logger.Setup(cfg.Log.Directory, logger.ParseLevel(cfg.Log.Level)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Aviso: log desativado: %v\n", err)
	}

	flags := cmd.Flags()
	if flags.Changed("excel") {
		cfg.Run.ExcelFile = excelFile
	}
	if flags.Changed("camada") {
		cfg.Run.LayerName = layerName
	}
	if flags.Changed("pasta") {
		cfg.Run.OutputDir = outputDir
	}
	if flags.Changed("qualidade") {
		// -q 0 asks for the default quality.
		cfg.Run.Quality = quality
		if quality == 0 {
			cfg.Run.Quality = config.DefaultQuality
		}
	}
	return cfg, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !silent {
		defer waitForEnter(out, os.Stdin)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		red.Fprintf(out, "Erro: %v\n", err)
		return &reportedError{err: err}
	}
	defer logger.Close()

	if err := cfg.Run.Validate(); err != nil {
		red.Fprintf(out, "Erro: %v\n", err)
		return &reportedError{err: err}
	}

	runner := batch.NewRunner(out)
	if _, err := runner.Run(cfg.Run); err != nil {
		return &reportedError{err: err}
	}
	return nil
}

func waitForEnter(out io.Writer, in io.Reader) {
	fmt.Fprint(out, "\nPressione Enter para sair...")
	bufio.NewReader(in).ReadString('\n')
}
