package extract

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure. Kinds are the only error surface
// that crosses the package boundary; callers branch on them, never on the
// underlying cause.
type Kind int

const (
	// KindValidation rejects the file before parsing: missing, empty,
	// oversized, or a bad signature. The user must pick a different file.
	KindValidation Kind = iota + 1
	// KindDocument means the Word-document conversion failed.
	KindDocument
	// KindExtraction means every PDF strategy was exhausted.
	KindExtraction
	// KindInsufficient means extraction succeeded but yielded near-empty
	// text, e.g. an image-only PDF.
	KindInsufficient
	// KindUnsupported means the declared type matches no handled category.
	KindUnsupported
)

// Error is the typed failure returned by the pipeline.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// UserMessage maps the failure onto a small set of user-facing categories
// with actionable guidance. Internal strategy names never leak here.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return e.msg
	case KindDocument:
		return "Could not read this Word document. Try saving it as a PDF or paste the resume text instead."
	case KindExtraction:
		return "Could not extract text from this PDF. It may be corrupted or password-protected; try re-exporting it or paste the resume text instead."
	case KindInsufficient:
		return "The file contains too little readable text. If it is a scanned document, convert it with OCR or paste the resume text instead."
	case KindUnsupported:
		return "Unsupported file type. Upload a PDF, Word document, or plain-text file."
	}
	return "Could not process the file."
}

// KindOf returns the extraction kind of err, or 0 when err is not a
// pipeline error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func validationErr(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func documentErr(cause error) *Error {
	return &Error{Kind: KindDocument, msg: "word document conversion failed", cause: cause}
}

func extractionErr(cause error) *Error {
	return &Error{Kind: KindExtraction, msg: "all extraction strategies failed", cause: cause}
}

func insufficientErr(got, min int) *Error {
	return &Error{Kind: KindInsufficient, msg: fmt.Sprintf("extracted text too short: %d chars, need %d", got, min)}
}

func unsupportedErr(mimeType, name string) *Error {
	return &Error{Kind: KindUnsupported, msg: fmt.Sprintf("unsupported file type %q (%s)", mimeType, name)}
}
