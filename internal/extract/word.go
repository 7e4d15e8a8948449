package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"
)

// docx is a zip container; the document body lives in word/document.xml as
// paragraphs of text runs. Legacy binary .doc files fail the zip check and
// that failure is terminal, there is no second strategy for Word files.

type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

func extractWord(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", documentErr(err)
	}
	text, err := docxText(data)
	if err != nil {
		return "", documentErr(err)
	}
	return text, nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("word/document.xml missing from archive")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	var parsed docxDocument
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, para := range parsed.Body.Paragraphs {
		var line strings.Builder
		for _, run := range para.Runs {
			for _, t := range run.Texts {
				line.WriteString(t)
			}
		}
		if s := strings.TrimSpace(line.String()); s != "" {
			sb.WriteString(s)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
