package extract

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

const pdfSignature = "%PDF"

// ValidateFile runs the pre-parse checks on an uploaded file: it must be
// readable, non-empty, within maxBytes, and carry the PDF magic bytes when
// the original name claims a .pdf extension. Checks run in that order and
// the first violation wins.
func ValidateFile(path, originalName string, maxBytes int64) error {
	f, err := os.Open(path)
	if err != nil {
		return validationErr("file not found or not readable")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return validationErr("file not found or not readable")
	}
	if info.Size() == 0 {
		return validationErr("file is empty")
	}
	if info.Size() > maxBytes {
		return validationErr("file exceeds the %d MB size limit", maxBytes/(1<<20))
	}

	if strings.EqualFold(filepath.Ext(originalName), ".pdf") {
		var sig [len(pdfSignature)]byte
		if _, err := io.ReadFull(f, sig[:]); err != nil || string(sig[:]) != pdfSignature {
			return validationErr("file is not a valid PDF")
		}
	}
	return nil
}
