package engine

import "errors"

var (
	// ErrImageMetadata means width and height could not be read from the sheet bytes.
	ErrImageMetadata = errors.New("image metadata unreadable")
	// ErrImageDecode means the header was readable but the pixels were not.
	ErrImageDecode = errors.New("image decode failed")
	// ErrSheetPanic wraps a panic recovered while processing one sheet.
	ErrSheetPanic = errors.New("sheet processing panicked")
)
