package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// lineBreakTolerance is the vertical distance, in PDF points, two text
// fragments may differ by and still count as the same line.
const lineBreakTolerance = 2.0

// asciiRunMin is the minimum length of a parenthesised printable-ASCII run
// the byte scanner will recover.
const asciiRunMin = 10

var errNoText = errors.New("no text produced")

type pdfStrategy struct {
	name string
	run  func(ctx context.Context, path string) (string, error)
}

func (p *Pipeline) pdfStrategies() []pdfStrategy {
	return []pdfStrategy{
		{"structured", extractPDFStructured},
		{"layout", extractPDFLayout},
		{"pdftotext", p.runPdftotext},
		{"byte-scan", scanPDFBytes},
	}
}

// extractPDF tries each strategy in order and returns the first non-empty
// text along with the name of the strategy that produced it. A strategy
// failing, panicking, or coming back empty just moves on to the next one;
// only after the last one does the pipeline give up.
func (p *Pipeline) extractPDF(ctx context.Context, path string) (string, string, error) {
	var lastErr error
	for _, s := range p.pdfStrategies() {
		text, err := s.run(ctx, path)
		if err != nil {
			lastErr = err
			p.logger.Debug("pdf strategy failed",
				zap.String("strategy", s.name),
				zap.Error(err))
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			return t, s.name, nil
		}
		lastErr = fmt.Errorf("%s: %w", s.name, errNoText)
	}
	return "", "", extractionErr(lastErr)
}

// extractPDFStructured parses the document and pulls the plain text stream.
// The parser panics on some malformed files, so that is trapped here and
// folded into an ordinary error.
func extractPDFStructured(_ context.Context, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractPDFLayout walks the positioned text fragments of every page and
// rebuilds line breaks from their vertical coordinates. It recovers text
// from documents whose plain-text stream comes out scrambled.
func extractPDFLayout(_ context.Context, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		sb.WriteString(linesFromFragments(page.Content().Text))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// linesFromFragments joins fragments that share a vertical position into one
// line and starts a new line whenever the position shifts past the
// tolerance. Horizontal whitespace inside each line is collapsed.
func linesFromFragments(frags []pdf.Text) string {
	if len(frags) == 0 {
		return ""
	}
	var lines []string
	var line strings.Builder
	lastY := frags[0].Y
	for _, t := range frags {
		if math.Abs(t.Y-lastY) > lineBreakTolerance {
			lines = append(lines, normalizeLine(line.String()))
			line.Reset()
			lastY = t.Y
		}
		line.WriteString(t.S)
	}
	lines = append(lines, normalizeLine(line.String()))
	return strings.Join(lines, "\n")
}

var spaceRunRe = regexp.MustCompile(`[ \t]+`)

func normalizeLine(s string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

// runPdftotext shells out to the poppler utility, asking for layout-preserved
// UTF-8 on stdout. A missing binary surfaces as an ordinary strategy failure.
func (p *Pipeline) runPdftotext(ctx context.Context, path string) (string, error) {
	if p.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ToolTimeout)
		defer cancel()
	}
	out, err := p.runner.Run(ctx, p.cfg.PdftotextPath, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var (
	pdfMetaRe     = regexp.MustCompile(`/(Title|Subject|Keywords)\s*\(([^()]*)\)`)
	pdfParenRunRe = regexp.MustCompile(fmt.Sprintf(`\(([^()]{%d,})\)`, asciiRunMin))
)

// scanPDFBytes is the last resort: a raw scan of the file for the metadata
// dictionary's Title, Subject and Keywords fields, plus any parenthesised
// run of at least ten printable ASCII characters. It recovers fragments
// from files no parser will touch. Encoded and compressed streams are
// invisible to it, so the output is partial by nature.
func scanPDFBytes(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, m := range pdfMetaRe.FindAllSubmatch(data, -1) {
		if v := strings.TrimSpace(string(m[2])); v != "" {
			parts = append(parts, v)
		}
	}
	for _, m := range pdfParenRunRe.FindAllSubmatch(data, -1) {
		if run := string(m[1]); printableASCII(run) {
			parts = append(parts, run)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no recoverable text in raw bytes")
	}
	return strings.Join(parts, "\n"), nil
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
