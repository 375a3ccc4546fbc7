package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KwakOri/zuku-sub002/internal/domain"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".tif": true, ".tiff": true, ".bmp": true, ".webp": true,
}

// ImageSource serves a single image file or every image in a directory, sorted by name.
type ImageSource struct {
	paths []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) SheetCount() int {
	return len(s.paths)
}

// Sheet reads the raw bytes; decoding is left to the engine.
func (s *ImageSource) Sheet(index int) (domain.Sheet, error) {
	name := filepath.Base(s.paths[index])

	data, err := os.ReadFile(s.paths[index])
	if err != nil {
		return domain.Sheet{Name: name}, err
	}
	return domain.Sheet{Name: name, Data: data}, nil
}

func (s *ImageSource) Close() error {
	return nil
}
