// Package pstest provides an in-memory stand-in for a running Photoshop
// instance.
package pstest

import (
	"fmt"
	"os"

	"github.com/miguelfrancaalves/autotextopsd/internal/photoshop"
)

type Application struct {
	Doc    *Document // nil means no document is open
	Closed bool
}

func (a *Application) ActiveDocument() (photoshop.Document, error) {
	if a.Doc == nil {
		return nil, photoshop.ErrNoDocumentOpen
	}
	return a.Doc, nil
}

func (a *Application) Close() error {
	a.Closed = true
	return nil
}

// Export records one call to Document.Export.
type Export struct {
	Path    string
	Text    string // contents of the first text layer at export time
	Options photoshop.ExportOptions
}

type Document struct {
	ArtLayers []*Layer
	Exports   []Export

	// ExportErr, when set, is consulted before every export.
	ExportErr func(path string) error
	// LayersErr, when set, makes Layers fail.
	LayersErr error

	LayerScans int
}

// NewDocument returns a document with one layer per name. The layer called
// textLayer is a text layer, the rest are normal layers.
func NewDocument(textLayer string, others ...string) *Document {
	doc := &Document{}
	for _, name := range others {
		doc.ArtLayers = append(doc.ArtLayers, &Layer{LayerName: name, LayerKind: photoshop.KindNormal})
	}
	if textLayer != "" {
		doc.ArtLayers = append(doc.ArtLayers, &Layer{LayerName: textLayer, LayerKind: photoshop.KindText})
	}
	return doc
}

func (d *Document) Layers() ([]photoshop.Layer, error) {
	d.LayerScans++
	if d.LayersErr != nil {
		return nil, d.LayersErr
	}
	layers := make([]photoshop.Layer, len(d.ArtLayers))
	for i, l := range d.ArtLayers {
		layers[i] = l
	}
	return layers, nil
}

// Export writes a small placeholder file at path so callers can check the
// output layout.
func (d *Document) Export(path string, opts photoshop.ExportOptions) error {
	if d.ExportErr != nil {
		if err := d.ExportErr(path); err != nil {
			return err
		}
	}

	text := d.text()
	if err := os.WriteFile(path, []byte(fmt.Sprintf("png:%s:q%d", text, opts.Quality)), 0644); err != nil {
		return err
	}
	d.Exports = append(d.Exports, Export{Path: path, Text: text, Options: opts})
	return nil
}

func (d *Document) text() string {
	for _, l := range d.ArtLayers {
		if l.LayerKind == photoshop.KindText {
			return l.Contents
		}
	}
	return ""
}

type Layer struct {
	LayerName string
	LayerKind photoshop.LayerKind
	Contents  string
	SetErr    error
	// OnSetText, when set, runs before the contents change.
	OnSetText func(text string)
	Released  int
}

func (l *Layer) Name() string              { return l.LayerName }
func (l *Layer) Kind() photoshop.LayerKind { return l.LayerKind }
func (l *Layer) Release()                  { l.Released++ }

func (l *Layer) SetText(text string) error {
	if l.OnSetText != nil {
		l.OnSetText(text)
	}
	if l.SetErr != nil {
		return l.SetErr
	}
	l.Contents = text
	return nil
}
