package batch

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miguelfrancaalves/autotextopsd/internal/config"
	"github.com/miguelfrancaalves/autotextopsd/internal/excel"
	"github.com/miguelfrancaalves/autotextopsd/internal/photoshop"
	"github.com/miguelfrancaalves/autotextopsd/internal/photoshop/pstest"
	"github.com/xuri/excelize/v2"
)

func writeNames(t *testing.T, header string, names ...any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetCellValue("Sheet1", "A1", header); err != nil {
		t.Fatal(err)
	}
	for i, name := range names {
		if name == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellValue("Sheet1", cell, name); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "lista_nomes.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

type fixture struct {
	runner *Runner
	app    *pstest.Application
	out    *bytes.Buffer
	cfg    config.RunConfig
}

func newFixture(t *testing.T, excelFile string) *fixture {
	t.Helper()

	app := &pstest.Application{Doc: pstest.NewDocument("Alterar Nome", "Fundo")}
	out := &bytes.Buffer{}
	runner := NewRunner(out)
	runner.Connect = func() (photoshop.Application, error) { return app, nil }

	cfg := config.DefaultRun()
	cfg.ExcelFile = excelFile
	cfg.OutputDir = filepath.Join(t.TempDir(), "PNG_Exportados")

	return &fixture{runner: runner, app: app, out: out, cfg: cfg}
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s: %v", path, err)
	}
}

func TestRunExportsByInitial(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", "Ana", "ana2", "Zoe"))

	summary, err := fx.runner.Run(fx.cfg)
	if err != nil {
		t.Fatalf("Run() error = %v\n%s", err, fx.out)
	}

	if summary.Total != 3 || summary.Processed != 3 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want total=3 processed=3 failed=0", summary)
	}
	assertFile(t, filepath.Join(fx.cfg.OutputDir, "A", "Ana.png"))
	assertFile(t, filepath.Join(fx.cfg.OutputDir, "A", "ana2.png"))
	assertFile(t, filepath.Join(fx.cfg.OutputDir, "Z", "Zoe.png"))

	exports := fx.app.Doc.Exports
	if len(exports) != 3 {
		t.Fatalf("exports = %d, want 3", len(exports))
	}
	for i, want := range []string{"Ana", "ana2", "Zoe"} {
		if exports[i].Text != want {
			t.Errorf("export %d text = %q, want %q", i, exports[i].Text, want)
		}
		if exports[i].Options.Quality != 100 || !exports[i].Options.Transparency {
			t.Errorf("export %d options = %+v", i, exports[i].Options)
		}
	}

	if fx.runner.State() != StateDone {
		t.Errorf("State() = %v, want done", fx.runner.State())
	}
	if !fx.app.Closed {
		t.Error("application not closed")
	}
	if summary.RunID == "" {
		t.Error("RunID empty")
	}

	output := fx.out.String()
	for _, want := range []string{"[33%] Exportado: A/Ana.png", "[100%] Exportado: Z/Zoe.png", "Total de nomes: 3", "Processados com sucesso: 3"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Falhas:") {
		t.Errorf("output reports failures:\n%s", output)
	}
}

func TestRunWritesOriginalTextAndCleanFileName(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", `  Jo?ão "Zé"  `))

	summary, err := fx.runner.Run(fx.cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("Processed = %d, want 1", summary.Processed)
	}
	assertFile(t, filepath.Join(fx.cfg.OutputDir, "J", "João Zé.png"))
	if got := fx.app.Doc.Exports[0].Text; got != `Jo?ão "Zé"` {
		t.Errorf("layer text = %q", got)
	}
}

func TestRunSubfolderFailureIsolated(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", "Ana", "Zoe", "Bia"))

	// A plain file where the Z folder should go makes its creation fail.
	if err := os.MkdirAll(fx.cfg.OutputDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fx.cfg.OutputDir, "Z"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	summary, err := fx.runner.Run(fx.cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want processed=2 failed=1", summary)
	}
	assertFile(t, filepath.Join(fx.cfg.OutputDir, "A", "Ana.png"))
	assertFile(t, filepath.Join(fx.cfg.OutputDir, "B", "Bia.png"))

	if len(summary.Failures) != 1 {
		t.Fatalf("Failures = %v", summary.Failures)
	}
	var subErr *SubfolderError
	if !errors.As(summary.Failures[0].Err, &subErr) {
		t.Errorf("failure = %v, want *SubfolderError", summary.Failures[0].Err)
	}
	if summary.Failures[0].Row != 3 {
		t.Errorf("failure row = %d, want 3", summary.Failures[0].Row)
	}
	if !strings.Contains(fx.out.String(), "Falhas: 1") {
		t.Errorf("output missing failure count:\n%s", fx.out)
	}
}

func TestRunExportFailureIsolated(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", "Ana", "Beto", "Caio"))
	fx.app.Doc.ExportErr = func(path string) error {
		if strings.HasSuffix(path, "Beto.png") {
			return errors.New("disk full")
		}
		return nil
	}

	summary, err := fx.runner.Run(fx.cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want processed=2 failed=1", summary)
	}
	var exportErr *ExportError
	if !errors.As(summary.Failures[0].Err, &exportErr) || exportErr.Name != "Beto" {
		t.Errorf("failure = %v, want *ExportError for Beto", summary.Failures[0].Err)
	}
	if !strings.Contains(fx.out.String(), "Erro ao processar nome 'Beto': disk full") {
		t.Errorf("output missing row error:\n%s", fx.out)
	}
}

func TestRunRecoversFromAdapterPanic(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", "Ana", "Beto", "Caio"))
	layer := fx.app.Doc.ArtLayers[len(fx.app.Doc.ArtLayers)-1]
	layer.OnSetText = func(text string) {
		if text == "Beto" {
			panic("nil dispatch")
		}
	}

	summary, err := fx.runner.Run(fx.cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want processed=2 failed=1", summary)
	}
	var exportErr *ExportError
	if !errors.As(summary.Failures[0].Err, &exportErr) || exportErr.Name != "Beto" {
		t.Errorf("failure = %v, want *ExportError for Beto", summary.Failures[0].Err)
	}
	if !strings.Contains(summary.Failures[0].Err.Error(), "nil dispatch") {
		t.Errorf("failure = %v, want panic value in message", summary.Failures[0].Err)
	}
	assertFile(t, filepath.Join(summary.OutputDir, "C", "Caio.png"))
	if got := fx.runner.State(); got != StateDone {
		t.Errorf("State() = %v, want %v", got, StateDone)
	}
}

func TestRunSkipsNamesWithNoUsableCharacters(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", "Ana", "???", "Beto"))

	summary, err := fx.runner.Run(fx.cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Total != 3 || summary.Processed != 2 || summary.Failed != 0 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want total=3 processed=2 failed=0 skipped=1", summary)
	}
	if !strings.Contains(fx.out.String(), "Aviso: Nome inválido ignorado na linha 3") {
		t.Errorf("output missing warning:\n%s", fx.out)
	}
}

func TestRunRelocatesLayerForEveryName(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", "Ana", "Beto"))

	if _, err := fx.runner.Run(fx.cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// One discovery scan plus one per name.
	if got := fx.app.Doc.LayerScans; got != 3 {
		t.Errorf("LayerScans = %d, want 3", got)
	}
}

func TestRunLayerNotFoundAborts(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", "Ana", "Beto"))
	fx.app.Doc = pstest.NewDocument("Titulo", "Fundo", "Logo")

	summary, err := fx.runner.Run(fx.cfg)
	var notFound *photoshop.LayerNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *LayerNotFoundError", err)
	}
	if summary != nil {
		t.Errorf("summary = %+v, want nil", summary)
	}
	if len(fx.app.Doc.Exports) != 0 {
		t.Errorf("exports = %d, want 0", len(fx.app.Doc.Exports))
	}
	if fx.runner.State() != StateAborted {
		t.Errorf("State() = %v, want aborted", fx.runner.State())
	}

	output := fx.out.String()
	for _, want := range []string{"Camada 'Alterar Nome' não encontrada", "  - Fundo", "  - Logo", "  - Titulo"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunWrongLayerKindAborts(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", "Ana"))
	fx.app.Doc = pstest.NewDocument("", "Alterar Nome")

	_, err := fx.runner.Run(fx.cfg)
	var wrongKind *photoshop.WrongLayerKindError
	if !errors.As(err, &wrongKind) {
		t.Fatalf("error = %v, want *WrongLayerKindError", err)
	}
	if !strings.Contains(fx.out.String(), "não é uma camada de texto") {
		t.Errorf("output missing diagnostic:\n%s", fx.out)
	}
}

func TestRunMissingColumnAbortsWithoutOutputFolder(t *testing.T) {
	fx := newFixture(t, writeNames(t, "name", "Ana"))

	_, err := fx.runner.Run(fx.cfg)
	var schemaErr *excel.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *excel.SchemaError", err)
	}
	if _, statErr := os.Stat(fx.cfg.OutputDir); !os.IsNotExist(statErr) {
		t.Errorf("output folder created: %v", statErr)
	}
	if !strings.Contains(fx.out.String(), "Colunas encontradas: name") {
		t.Errorf("output missing columns:\n%s", fx.out)
	}
}

func TestRunSetupFailures(t *testing.T) {
	validFile := writeNames(t, "nome", "Ana")

	tests := []struct {
		name    string
		setup   func(fx *fixture)
		wantErr error
		wantOut string
	}{
		{
			name: "application unavailable",
			setup: func(fx *fixture) {
				fx.runner.Connect = func() (photoshop.Application, error) {
					return nil, errors.New("class not registered")
				}
			},
			wantErr: photoshop.ErrApplicationUnavailable,
			wantOut: "Não foi possível conectar ao Photoshop",
		},
		{
			name:    "no document",
			setup:   func(fx *fixture) { fx.app.Doc = nil },
			wantErr: photoshop.ErrNoDocumentOpen,
			wantOut: "Nenhum documento aberto",
		},
		{
			name:    "input missing",
			setup:   func(fx *fixture) { fx.cfg.ExcelFile = filepath.Join(t.TempDir(), "falta.xlsx") },
			wantErr: excel.ErrInputNotFound,
			wantOut: "não encontrado",
		},
		{
			name:    "empty input",
			setup:   func(fx *fixture) { fx.cfg.ExcelFile = writeNames(t, "nome", "nan", "  ") },
			wantErr: excel.ErrEmptyInput,
			wantOut: "Não foram encontrados nomes válidos",
		},
		{
			name: "output root blocked",
			setup: func(fx *fixture) {
				blocker := filepath.Join(t.TempDir(), "arquivo")
				if err := os.WriteFile(blocker, nil, 0644); err != nil {
					t.Fatal(err)
				}
				fx.cfg.OutputDir = filepath.Join(blocker, "PNG_Exportados")
			},
			wantErr: ErrOutputRoot,
			wantOut: "Erro ao criar pasta principal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, validFile)
			tt.setup(fx)

			summary, err := fx.runner.Run(fx.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if summary != nil {
				t.Errorf("summary = %+v, want nil", summary)
			}
			if !strings.Contains(fx.out.String(), tt.wantOut) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, fx.out)
			}
			if fx.app.Doc != nil && len(fx.app.Doc.Exports) != 0 {
				t.Errorf("exports happened during aborted run")
			}
		})
	}
}

func TestRunUsesPNG8Option(t *testing.T) {
	fx := newFixture(t, writeNames(t, "nome", "Ana"))
	fx.cfg.Format = config.FormatPNG8
	fx.cfg.Quality = 70

	if _, err := fx.runner.Run(fx.cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	opts := fx.app.Doc.Exports[0].Options
	if !opts.PNG8 || opts.Quality != 70 {
		t.Errorf("options = %+v, want PNG8 quality 70", opts)
	}
}
