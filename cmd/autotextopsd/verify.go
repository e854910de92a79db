package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/miguelfrancaalves/autotextopsd/internal/config"
	"github.com/miguelfrancaalves/autotextopsd/internal/excel"
	"github.com/miguelfrancaalves/autotextopsd/internal/logger"
	"github.com/miguelfrancaalves/autotextopsd/internal/menu"
)

// verifyExcel prints how the name column of the configured workbook would be
// filtered, without touching Photoshop.
func verifyExcel(out io.Writer, cfg config.RunConfig) error {
	cyan := color.New(color.FgCyan)
	cyan.Fprintln(out, "\n=== VERIFICAÇÃO DO ARQUIVO EXCEL ===")

	report, err := excel.Inspect(cfg.ExcelFile, cfg.Column)
	if err != nil {
		var schemaErr *excel.SchemaError
		switch {
		case errors.Is(err, excel.ErrInputNotFound):
			red.Fprintf(out, "Erro: Arquivo Excel '%s' não encontrado.\n", cfg.ExcelFile)
		case errors.As(err, &schemaErr):
			red.Fprintf(out, "ERRO: O arquivo não contém uma coluna chamada '%s'\n", schemaErr.Column)
			fmt.Fprintf(out, "Colunas encontradas: %s\n", strings.Join(schemaErr.Found, ", "))
		default:
			red.Fprintf(out, "Erro ao analisar o arquivo Excel: %v\n", err)
		}
		logger.Warn("Input file check failed", "file", cfg.ExcelFile, "error", err)
		return err
	}

	fmt.Fprint(out, menu.RenderReport(report, cfg.Column))
	logger.Info("Input file checked",
		"file", cfg.ExcelFile,
		"rows", report.TotalRows,
		"valid", report.Valid)
	return nil
}
