// Package photoshop drives an already running Photoshop instance: it finds a
// text layer in the active document, rewrites its contents and exports the
// document through the save-for-web path.
//
// Every call is synchronous and talks to the application directly; nothing
// is cached between calls.
package photoshop

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrApplicationUnavailable = errors.New("photoshop is not reachable")
	ErrNoDocumentOpen         = errors.New("no document open in photoshop")
)

// LayerKind mirrors Photoshop's LayerKind enumeration. Only text layers are
// of interest here.
type LayerKind int

const (
	KindNormal LayerKind = 1
	KindText   LayerKind = 2
)

func (k LayerKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Application is a connection to the running editor.
type Application interface {
	ActiveDocument() (Document, error)
	Close() error
}

// Document is the document currently active in the editor.
type Document interface {
	// Layers lists the document's art layers in stacking order. Callers
	// release every returned layer.
	Layers() ([]Layer, error)
	// Export writes the current rendition of the document to path,
	// overwriting any existing file.
	Export(path string, opts ExportOptions) error
}

type Layer interface {
	Name() string
	Kind() LayerKind
	SetText(text string) error
	Release()
}

// LayerNotFoundError lists every layer name so the operator can fix the
// configured layer name.
type LayerNotFoundError struct {
	Name      string
	Available []string
}

func (e *LayerNotFoundError) Error() string {
	return fmt.Sprintf("layer %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

type WrongLayerKindError struct {
	Name string
	Kind LayerKind
}

func (e *WrongLayerKindError) Error() string {
	return fmt.Sprintf("layer %q is a %s layer, not a text layer", e.Name, e.Kind)
}

// FindTextLayer scans the document's layers for the first one named exactly
// name. The returned layer must be released by the caller.
func FindTextLayer(doc Document, name string) (Layer, error) {
	layers, err := doc.Layers()
	if err != nil {
		return nil, fmt.Errorf("failed to list layers: %w", err)
	}

	var found Layer
	available := make([]string, 0, len(layers))
	for _, layer := range layers {
		if found == nil && layer.Name() == name {
			found = layer
			continue
		}
		available = append(available, layer.Name())
		layer.Release()
	}

	if found == nil {
		return nil, &LayerNotFoundError{Name: name, Available: available}
	}
	if kind := found.Kind(); kind != KindText {
		found.Release()
		return nil, &WrongLayerKindError{Name: name, Kind: kind}
	}
	return found, nil
}

// SetLayerText finds the text layer called name and replaces its contents.
func SetLayerText(doc Document, name, text string) error {
	layer, err := FindTextLayer(doc, name)
	if err != nil {
		return err
	}
	defer layer.Release()

	if err := layer.SetText(text); err != nil {
		return fmt.Errorf("failed to set text of layer %q: %w", name, err)
	}
	return nil
}
