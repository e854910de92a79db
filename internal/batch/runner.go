// Package batch runs one export pass: it reads the name list, rewrites the
// configured text layer once per name and exports each rendition into a
// folder named after the name's initial.
package batch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/miguelfrancaalves/autotextopsd/internal/config"
	"github.com/miguelfrancaalves/autotextopsd/internal/excel"
	"github.com/miguelfrancaalves/autotextopsd/internal/logger"
	"github.com/miguelfrancaalves/autotextopsd/internal/naming"
	"github.com/miguelfrancaalves/autotextopsd/internal/photoshop"
)

// Summary is the outcome of a run that got past setup.
type Summary struct {
	RunID     string
	Total     int
	Processed int
	Failed    int
	Skipped   int
	Elapsed   time.Duration
	OutputDir string
	Failures  []ItemFailure
}

type Runner struct {
	// Connect opens the editor. Defaults to photoshop.Connect.
	Connect func() (photoshop.Application, error)
	Out     io.Writer

	state State
}

func NewRunner(out io.Writer) *Runner {
	return &Runner{Connect: photoshop.Connect, Out: out}
}

// State reports the phase the last run reached.
func (r *Runner) State() State {
	return r.state
}

var (
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	cyan   = color.New(color.FgCyan)
)

// Run executes one export pass with cfg. Setup failures (editor, document,
// input file, output folder, layer) abort before any row is touched and are
// returned. Row failures are counted in the summary and never stop the run.
func (r *Runner) Run(cfg config.RunConfig) (*Summary, error) {
	runID := uuid.NewString()
	log := logger.With("run_id", runID)

	summary, err := r.run(cfg, runID, log)
	if err != nil {
		r.state = StateAborted
		log.Error("Run aborted", "error", err)
		return nil, err
	}
	r.state = StateDone
	return summary, nil
}

func (r *Runner) run(cfg config.RunConfig, runID string, log *slog.Logger) (*Summary, error) {
	cyan.Fprintln(r.Out, "\n=== Iniciando processamento ===")
	log.Info("Starting run",
		"excel_file", cfg.ExcelFile,
		"layer", cfg.LayerName,
		"output_dir", cfg.OutputDir,
		"quality", cfg.Quality,
		"format", cfg.Format)

	r.state = StateConnecting
	app, err := r.Connect()
	if err != nil {
		red.Fprintln(r.Out, "Erro: Não foi possível conectar ao Photoshop. Verifique se ele está aberto.")
		if !errors.Is(err, photoshop.ErrApplicationUnavailable) {
			err = fmt.Errorf("%w: %v", photoshop.ErrApplicationUnavailable, err)
		}
		return nil, err
	}
	defer app.Close()

	doc, err := app.ActiveDocument()
	if err != nil {
		red.Fprintln(r.Out, "Erro: Nenhum documento aberto no Photoshop. Abra um arquivo PSD primeiro.")
		if !errors.Is(err, photoshop.ErrNoDocumentOpen) {
			err = fmt.Errorf("%w: %v", photoshop.ErrNoDocumentOpen, err)
		}
		return nil, err
	}

	opts, err := photoshop.OptionsForFormat(cfg.Format, cfg.Quality)
	if err != nil {
		red.Fprintf(r.Out, "Erro: %v\n", err)
		return nil, err
	}

	list, err := excel.LoadNames(cfg.ExcelFile, cfg.Column)
	if err != nil {
		r.printLoadError(cfg, err)
		return nil, err
	}
	fmt.Fprintf(r.Out, "Arquivo Excel carregado: %s (%d nomes válidos)\n", cfg.ExcelFile, len(list.Names))
	log.Info("Loaded names", "rows", list.TotalRows, "valid", len(list.Names))

	root, err := filepath.Abs(cfg.OutputDir)
	if err == nil {
		err = os.MkdirAll(root, 0755)
	}
	if err != nil {
		red.Fprintf(r.Out, "Erro ao criar pasta principal: %v\n", err)
		return nil, fmt.Errorf("%w: %v", ErrOutputRoot, err)
	}
	fmt.Fprintf(r.Out, "Pasta principal criada/verificada: %s\n", root)
	r.state = StateLoaded

	layer, err := photoshop.FindTextLayer(doc, cfg.LayerName)
	if err != nil {
		r.printLayerError(cfg, err)
		return nil, err
	}
	layer.Release()

	summary := &Summary{
		RunID:     runID,
		Total:     len(list.Names),
		OutputDir: root,
	}

	fmt.Fprintln(r.Out, "\nIniciando exportação de arquivos...")
	start := time.Now()
	r.state = StateExporting

	for _, name := range list.Names {
		clean := naming.CleanName(name.Value)
		if clean == "" {
			yellow.Fprintf(r.Out, "Aviso: Nome inválido ignorado na linha %d\n", name.Row)
			log.Warn("Skipping name with no usable characters", "row", name.Row, "name", name.Value)
			summary.Skipped++
			continue
		}

		initial := naming.Initial(clean)
		dir := filepath.Join(root, initial)
		if err := os.MkdirAll(dir, 0755); err != nil {
			red.Fprintf(r.Out, "Erro ao criar subpasta %s: %v\n", initial, err)
			summary.fail(name, &SubfolderError{Dir: dir, Err: err}, log)
			continue
		}

		fileName := clean + opts.Extension()
		if err := exportName(doc, cfg.LayerName, name.Value, filepath.Join(dir, fileName), opts); err != nil {
			red.Fprintf(r.Out, "Erro ao processar nome '%s': %v\n", name.Value, err)
			summary.fail(name, &ExportError{Name: name.Value, Err: err}, log)
			continue
		}

		summary.Processed++
		progress := summary.Processed * 100 / summary.Total
		green.Fprintf(r.Out, "[%d%%] Exportado: %s/%s\n", progress, initial, fileName)
		log.Debug("Exported name", "row", name.Row, "file", filepath.Join(initial, fileName))
	}

	summary.Elapsed = time.Since(start)
	r.printSummary(summary)
	log.Info("Run finished",
		"total", summary.Total,
		"processed", summary.Processed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"elapsed", summary.Elapsed)
	return summary, nil
}

// exportName writes text into the layer and exports the document to path.
// The layer is looked up again for every name; handles from a previous
// lookup are not reused. A panic inside the adapter is returned as an error
// so it only fails this name.
func exportName(doc photoshop.Document, layerName, text, path string, opts photoshop.ExportOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	if err := photoshop.SetLayerText(doc, layerName, text); err != nil {
		return err
	}
	return doc.Export(path, opts)
}

func (s *Summary) fail(name excel.Name, err error, log *slog.Logger) {
	s.Failed++
	s.Failures = append(s.Failures, ItemFailure{Row: name.Row, Name: name.Value, Err: err})
	log.Error("Row failed", "row", name.Row, "name", name.Value, "error", err)
}

func (r *Runner) printLoadError(cfg config.RunConfig, err error) {
	var schemaErr *excel.SchemaError
	switch {
	case errors.Is(err, excel.ErrInputNotFound):
		red.Fprintf(r.Out, "Erro: Arquivo Excel '%s' não encontrado.\n", cfg.ExcelFile)
	case errors.As(err, &schemaErr):
		red.Fprintf(r.Out, "Erro: O arquivo Excel não contém uma coluna chamada '%s'.\n", schemaErr.Column)
		fmt.Fprintf(r.Out, "Colunas encontradas: %s\n", strings.Join(schemaErr.Found, ", "))
	case errors.Is(err, excel.ErrEmptyInput):
		red.Fprintln(r.Out, "Erro: Não foram encontrados nomes válidos no arquivo Excel.")
	default:
		red.Fprintf(r.Out, "Erro ao abrir o arquivo Excel: %v\n", err)
	}
}

func (r *Runner) printLayerError(cfg config.RunConfig, err error) {
	var notFound *photoshop.LayerNotFoundError
	var wrongKind *photoshop.WrongLayerKindError
	switch {
	case errors.As(err, &notFound):
		red.Fprintf(r.Out, "Erro: Camada '%s' não encontrada no documento. Camadas disponíveis:\n", cfg.LayerName)
		for _, name := range notFound.Available {
			fmt.Fprintf(r.Out, "  - %s\n", name)
		}
	case errors.As(err, &wrongKind):
		red.Fprintf(r.Out, "Erro: A camada '%s' não é uma camada de texto.\n", cfg.LayerName)
	default:
		red.Fprintf(r.Out, "Erro ao acessar as camadas do documento: %v\n", err)
	}
}

func (r *Runner) printSummary(s *Summary) {
	cyan.Fprintf(r.Out, "\nProcessamento concluído em %.1f segundos\n", s.Elapsed.Seconds())
	fmt.Fprintf(r.Out, "Total de nomes: %d\n", s.Total)
	fmt.Fprintf(r.Out, "Processados com sucesso: %d\n", s.Processed)
	if s.Skipped > 0 {
		fmt.Fprintf(r.Out, "Ignorados: %d\n", s.Skipped)
	}
	if s.Failed > 0 {
		red.Fprintf(r.Out, "Falhas: %d\n", s.Failed)
	}
}
