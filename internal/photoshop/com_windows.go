//go:build windows

package photoshop

import (
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/miguelfrancaalves/autotextopsd/internal/logger"
)

const (
	applicationProgID   = "Photoshop.Application"
	saveForWebOptionsID = "Photoshop.ExportOptionsSaveForWeb"
)

type comApplication struct {
	app  *ole.IDispatch
	docs []*comDocument
}

// Connect attaches to the running Photoshop instance over COM. The calling
// goroutine stays locked to its OS thread until Close.
func Connect() (Application, error) {
	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		// S_FALSE means COM was already initialized on this thread.
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != 1 {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("%w: %v", ErrApplicationUnavailable, err)
		}
	}

	unknown, err := activeOrNew(applicationProgID)
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: %v", ErrApplicationUnavailable, err)
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: %v", ErrApplicationUnavailable, err)
	}

	logger.Debug("Connected to application", "prog_id", applicationProgID)
	return &comApplication{app: app}, nil
}

// activeOrNew prefers the instance the operator already has open.
func activeOrNew(progID string) (*ole.IUnknown, error) {
	clsid, err := ole.CLSIDFromProgID(progID)
	if err != nil {
		return nil, err
	}
	if unknown, err := ole.GetActiveObject(clsid, ole.IID_IUnknown); err == nil {
		return unknown, nil
	}
	return oleutil.CreateObject(progID)
}

func (a *comApplication) ActiveDocument() (Document, error) {
	v, err := oleutil.GetProperty(a.app, "ActiveDocument")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocumentOpen, err)
	}
	doc := v.ToIDispatch()
	if doc == nil {
		return nil, ErrNoDocumentOpen
	}
	d := &comDocument{doc: doc}
	a.docs = append(a.docs, d)
	return d, nil
}

// Close releases every document handed out and the application itself.
func (a *comApplication) Close() error {
	for _, d := range a.docs {
		d.doc.Release()
	}
	a.docs = nil
	a.app.Release()
	ole.CoUninitialize()
	runtime.UnlockOSThread()
	return nil
}

type comDocument struct {
	doc *ole.IDispatch
}

func (d *comDocument) Layers() ([]Layer, error) {
	v, err := oleutil.GetProperty(d.doc, "ArtLayers")
	if err != nil {
		return nil, err
	}
	artLayers := v.ToIDispatch()
	if artLayers == nil {
		return nil, fmt.Errorf("document has no art layer collection")
	}
	defer artLayers.Release()

	countV, err := oleutil.GetProperty(artLayers, "Count")
	if err != nil {
		return nil, err
	}
	count := variantInt(countV)

	layers := make([]Layer, 0, count)
	for i := 1; i <= count; i++ {
		itemV, err := oleutil.CallMethod(artLayers, "Item", i)
		if err != nil {
			releaseAll(layers)
			return nil, fmt.Errorf("failed to read layer %d: %w", i, err)
		}
		item := itemV.ToIDispatch()
		if item == nil {
			releaseAll(layers)
			return nil, fmt.Errorf("layer %d is not an object", i)
		}
		layer, err := newComLayer(item)
		if err != nil {
			releaseAll(layers)
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func (d *comDocument) Export(path string, opts ExportOptions) error {
	unknown, err := oleutil.CreateObject(saveForWebOptionsID)
	if err != nil {
		return fmt.Errorf("failed to create export options: %w", err)
	}
	defer unknown.Release()

	options, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("failed to create export options: %w", err)
	}
	defer options.Release()

	props := []struct {
		name  string
		value any
	}{
		{"Format", saveDocumentTypePNG},
		{"PNG8", opts.PNG8},
		{"Transparency", opts.Transparency},
		{"Quality", opts.Quality},
	}
	for _, p := range props {
		if _, err := oleutil.PutProperty(options, p.name, p.value); err != nil {
			return fmt.Errorf("failed to set export option %s: %w", p.name, err)
		}
	}

	if _, err := oleutil.CallMethod(d.doc, "Export", path, exportTypeSaveForWeb, options); err != nil {
		return fmt.Errorf("export to %s failed: %w", path, err)
	}
	return nil
}

type comLayer struct {
	layer *ole.IDispatch
	name  string
	kind  LayerKind
}

func newComLayer(layer *ole.IDispatch) (*comLayer, error) {
	nameV, err := oleutil.GetProperty(layer, "Name")
	if err != nil {
		layer.Release()
		return nil, fmt.Errorf("failed to read layer name: %w", err)
	}
	kindV, err := oleutil.GetProperty(layer, "Kind")
	if err != nil {
		layer.Release()
		return nil, fmt.Errorf("failed to read layer kind: %w", err)
	}
	return &comLayer{
		layer: layer,
		name:  nameV.ToString(),
		kind:  LayerKind(variantInt(kindV)),
	}, nil
}

func (l *comLayer) Name() string    { return l.name }
func (l *comLayer) Kind() LayerKind { return l.kind }

func (l *comLayer) SetText(text string) error {
	if l.layer == nil {
		return fmt.Errorf("layer %q already released", l.name)
	}
	v, err := oleutil.GetProperty(l.layer, "TextItem")
	if err != nil {
		return err
	}
	textItem := v.ToIDispatch()
	if textItem == nil {
		return fmt.Errorf("layer %q has no text item", l.name)
	}
	defer textItem.Release()

	_, err = oleutil.PutProperty(textItem, "Contents", text)
	return err
}

func (l *comLayer) Release() {
	if l.layer != nil {
		l.layer.Release()
		l.layer = nil
	}
}

func releaseAll(layers []Layer) {
	for _, l := range layers {
		l.Release()
	}
}

func variantInt(v *ole.VARIANT) int {
	switch n := v.Value().(type) {
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case float64:
		return int(n)
	default:
		return int(v.Val)
	}
}
