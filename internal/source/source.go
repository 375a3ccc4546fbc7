package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/KwakOri/zuku-sub002/internal/domain"
)

// Source yields answer sheets in a stable order.
type Source interface {
	SheetCount() int
	Sheet(index int) (domain.Sheet, error)
	Close() error
}

// Open picks a PDF source for .pdf files and an image source otherwise.
func Open(path string, dpi int) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewFitzPDFSource(path, dpi)
	}
	return NewImageSource(path)
}

// ReadAll loads every sheet of src. A sheet that cannot be read is returned with
// nil Data so the engine reports it alongside the other failures.
func ReadAll(src Source) []domain.Sheet {
	sheets := make([]domain.Sheet, 0, src.SheetCount())
	for i := 0; i < src.SheetCount(); i++ {
		s, _ := src.Sheet(i)
		sheets = append(sheets, s)
	}
	return sheets
}

// FitzPDFSource renders each page of a scanned PDF as one sheet.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) SheetCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Sheet(index int) (domain.Sheet, error) {
	name := fmt.Sprintf("%s#page%d", filepath.Base(f.path), index+1)

	data, err := f.doc.ImagePNG(index, float64(f.dpi))
	if err != nil {
		return domain.Sheet{Name: name}, fmt.Errorf("render page %d: %w", index+1, err)
	}
	return domain.Sheet{Name: name, Data: data}, nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
