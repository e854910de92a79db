package photoshop

import (
	"fmt"
	"strings"
)

// Values from Photoshop's scripting enumerations.
const (
	exportTypeSaveForWeb = 2
	saveDocumentTypePNG  = 13
)

// ExportOptions configures one save-for-web export.
type ExportOptions struct {
	Quality      int  // 1-100
	PNG8         bool // 8-bit palette instead of 24-bit
	Transparency bool
}

// Extension is the file extension of the encoding the options produce.
func (o ExportOptions) Extension() string {
	return ".png"
}

// OptionsForFormat builds export options for a configured format name.
func OptionsForFormat(format string, quality int) (ExportOptions, error) {
	if quality < 1 || quality > 100 {
		return ExportOptions{}, fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}

	opts := ExportOptions{Quality: quality, Transparency: true}
	switch strings.ToUpper(format) {
	case "PNG24", "PNG":
	case "PNG8":
		opts.PNG8 = true
	default:
		return ExportOptions{}, fmt.Errorf("unsupported export format %q", format)
	}
	return opts, nil
}
