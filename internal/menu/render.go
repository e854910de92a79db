package menu

import (
	"fmt"
	"strings"

	"github.com/miguelfrancaalves/autotextopsd/internal/config"
	"github.com/miguelfrancaalves/autotextopsd/internal/excel"
)

var warnStyle = errorStyle.Bold(true)

func RenderSettings(cfg config.RunConfig) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("=== CONFIGURAÇÕES ATUAIS ==="))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Arquivo Excel: %s\n", cfg.ExcelFile)
	fmt.Fprintf(&b, "Nome da camada: %s\n", cfg.LayerName)
	fmt.Fprintf(&b, "Pasta de saída: %s\n", cfg.OutputDir)
	fmt.Fprintf(&b, "Qualidade: %d\n", cfg.Quality)
	fmt.Fprintf(&b, "Formato: %s\n", cfg.Format)
	return b.String()
}

func RenderHelp(cfg config.RunConfig) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("=== AJUDA ==="))
	b.WriteString("\n")
	b.WriteString("Este programa automatiza a edição de uma camada de texto no Photoshop\n")
	b.WriteString("e exporta o resultado como arquivos PNG.\n")
	b.WriteString("\nPré-requisitos:\n")
	b.WriteString("1. Tenha o Photoshop aberto com um arquivo PSD\n")
	fmt.Fprintf(&b, "2. Certifique-se que existe uma camada de texto chamada '%s'\n", cfg.LayerName)
	fmt.Fprintf(&b, "3. Prepare um arquivo Excel com uma coluna '%s' contendo os textos a inserir\n", cfg.Column)
	b.WriteString("\nFuncionamento:\n")
	b.WriteString("- O programa lerá cada nome do Excel e o inserirá na camada de texto\n")
	b.WriteString("- Cada arquivo será exportado como PNG para a pasta configurada\n")
	b.WriteString("- Os arquivos serão organizados em subpastas por letra inicial\n")
	return b.String()
}

// RenderReport formats the result of excel.Inspect.
func RenderReport(report *excel.Report, column string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Arquivo: %s\n", report.Path)
	fmt.Fprintf(&b, "Total de linhas: %d\n", report.TotalRows)

	fmt.Fprintf(&b, "\nAnálise da coluna '%s':\n", column)
	fmt.Fprintf(&b, "- Valores válidos: %d\n", report.Valid)
	if report.Null > 0 {
		fmt.Fprintf(&b, "- Valores nulos: %d\n", report.Null)
	}
	if report.Blank > 0 {
		fmt.Fprintf(&b, "- Strings vazias: %d\n", report.Blank)
	}
	if report.Placeholders > 0 {
		fmt.Fprintf(&b, "- Strings 'nan': %d\n", report.Placeholders)
	}

	switch {
	case report.Valid == 0:
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("AVISO: Não há nenhum nome válido para processamento!"))
		b.WriteString("\n")
	case report.Valid < report.TotalRows:
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("AVISO: Existem valores inválidos que serão ignorados durante o processamento."))
		b.WriteString("\n")
	}

	if len(report.Sample) > 0 {
		fmt.Fprintf(&b, "\nAmostra dos primeiros %d nomes válidos:\n", len(report.Sample))
		for i, name := range report.Sample {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, name)
		}
	}
	return b.String()
}
