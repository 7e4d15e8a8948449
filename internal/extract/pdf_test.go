package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a minimal single-page PDF that shows each line with its
// own text matrix, 16 points below the previous one. Offsets in the xref
// table are computed from the actual byte positions so the file parses
// cleanly.
func buildPDF(t *testing.T, lines []string) []byte {
	t.Helper()

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n")
	y := 720
	for _, ln := range lines {
		fmt.Fprintf(&content, "1 0 0 1 72 %d Tm\n(%s) Tj\n", y, ln)
		y -= 16
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
			"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefPos)
	return buf.Bytes()
}

// buildBrokenPDF has a valid signature and readable metadata strings but a
// trashed cross-reference table, so every real parser rejects it.
func buildBrokenPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("1 0 obj\n<< /Title (Senior Golang Developer Resume) " +
		"/Subject (CV) /Keywords (golang, distributed systems, kubernetes) >>\nendobj\n")
	buf.Write([]byte{0x00, 0x01, 0x02, 0xfe, 0xff, 0x00, 0x13, 0x37})
	buf.WriteString("\nxref\nnot a real table\ntrailer\n<< >>\nstartxref\n999999\n%%EOF\n")
	return buf.Bytes()
}

func TestExtractPDFStructured(t *testing.T) {
	path := writeTemp(t, "resume.pdf", buildPDF(t, []string{
		"Experienced Go developer",
		"Built high-throughput ingest services",
	}))

	text, err := extractPDFStructured(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Experienced Go developer")
	assert.Contains(t, text, "Built high-throughput ingest services")
}

func TestExtractPDFStructured_BadFile(t *testing.T) {
	path := writeTemp(t, "broken.pdf", buildBrokenPDF())

	_, err := extractPDFStructured(context.Background(), path)
	assert.Error(t, err)
}

func TestExtractPDFLayout_RebuildsLines(t *testing.T) {
	path := writeTemp(t, "resume.pdf", buildPDF(t, []string{
		"Jane Doe",
		"Staff Engineer",
	}))

	text, err := extractPDFLayout(context.Background(), path)
	require.NoError(t, err)

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "Jane Doe", lines[0])
	assert.Equal(t, "Staff Engineer", lines[1])
}

func TestExtractPDF_ParserWinsBeforeSubprocess(t *testing.T) {
	path := writeTemp(t, "resume.pdf", buildPDF(t, []string{
		"Backend engineer shipping Go services since 2017",
	}))

	runner := &mockRunner{err: errors.New("must not be reached")}
	p := newTestPipeline(runner)

	text, strategy, err := p.extractPDF(context.Background(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Contains(t, []string{"structured", "layout"}, strategy)
	assert.Zero(t, runner.calls, "subprocess strategy ran even though a parser succeeded")
}

func TestExtractPDF_SubprocessFallback(t *testing.T) {
	path := writeTemp(t, "broken.pdf", buildBrokenPDF())

	runner := &mockRunner{out: []byte("Recovered by pdftotext\nGo engineer, nine years\n")}
	p := newTestPipeline(runner)

	text, strategy, err := p.extractPDF(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "pdftotext", strategy)
	assert.Contains(t, text, "Recovered by pdftotext")
	assert.Equal(t, 1, runner.calls)
}

func TestExtractPDF_ByteScanSalvage(t *testing.T) {
	path := writeTemp(t, "broken.pdf", buildBrokenPDF())

	runner := &mockRunner{err: errors.New("pdftotext: executable file not found")}
	p := newTestPipeline(runner)

	text, strategy, err := p.extractPDF(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "byte-scan", strategy)
	assert.Contains(t, text, "Senior Golang Developer Resume")
	assert.Contains(t, text, "golang, distributed systems, kubernetes")
}

func TestExtractPDF_AllStrategiesExhausted(t *testing.T) {
	junk := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0x00, 0xfe, 0x07}, 64)...)
	path := writeTemp(t, "junk.pdf", junk)

	runner := &mockRunner{err: errors.New("pdftotext: exit status 1")}
	p := newTestPipeline(runner)

	_, _, err := p.extractPDF(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, KindExtraction, KindOf(err))
}

func TestLinesFromFragments(t *testing.T) {
	cases := []struct {
		name  string
		frags []pdf.Text
		want  string
	}{
		{
			name: "same baseline stays on one line",
			frags: []pdf.Text{
				{S: "John ", Y: 720},
				{S: "Doe", Y: 720},
			},
			want: "John Doe",
		},
		{
			name: "vertical shift starts a new line",
			frags: []pdf.Text{
				{S: "John Doe", Y: 720},
				{S: "Engineer", Y: 704},
			},
			want: "John Doe\nEngineer",
		},
		{
			name: "jitter inside tolerance is the same line",
			frags: []pdf.Text{
				{S: "super", Y: 720},
				{S: "script", Y: 721.5},
			},
			want: "superscript",
		},
		{
			name: "whitespace runs collapse",
			frags: []pdf.Text{
				{S: "Go\t\t ", Y: 500},
				{S: "  engineer", Y: 500},
			},
			want: "Go engineer",
		},
		{
			name:  "empty input",
			frags: nil,
			want:  "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, linesFromFragments(tc.frags))
		})
	}
}

func TestScanPDFBytes(t *testing.T) {
	raw := strings.Join([]string{
		"%PDF-1.4",
		"1 0 obj << /Title (Backend Engineer CV) /Subject () /Keywords (go, grpc, kafka) >> endobj",
		"(short)",
		"(a parenthesised run long enough to keep)",
		"(bin\x01ary junk that must be dropped entirely)",
		"%%EOF",
	}, "\n")
	path := writeTemp(t, "meta.pdf", []byte(raw))

	text, err := scanPDFBytes(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Backend Engineer CV")
	assert.Contains(t, text, "go, grpc, kafka")
	assert.Contains(t, text, "a parenthesised run long enough to keep")
	assert.NotContains(t, text, "short")
	assert.NotContains(t, text, "junk that must be dropped")
}

func TestScanPDFBytes_NothingRecoverable(t *testing.T) {
	path := writeTemp(t, "none.pdf", []byte("%PDF-1.4\nno strings here\n%%EOF"))

	_, err := scanPDFBytes(context.Background(), path)
	assert.Error(t, err)
}
