package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hamim-ifty/Atc/internal/model"
)

// Renders the download report template against a saved analysis JSON so the
// layout can be tweaked without Chrome or a running server. Open the output
// in a browser and print to PDF to approximate the real download.

type analysisFile struct {
	TargetRole string               `json:"targetRole"`
	CreatedAt  time.Time            `json:"createdAt"`
	Result     model.AnalysisResult `json:"result"`
}

func main() {
	in := flag.String("in", "analysis.json", "analysis JSON file (an /api/analyses/:id response or cmd/analyze output)")
	doc := flag.String("doc", "resume", "document to render: resume or cover-letter")
	tpl := flag.String("tpl", "internal/adapter/http/templates/report.html", "report template path")
	out := flag.String("out", "report_preview.html", "output HTML file")
	flag.Parse()

	b, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read analysis: %v\n", err)
		os.Exit(2)
	}
	var a analysisFile
	if err := json.Unmarshal(b, &a); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}

	title, md := "Rewritten Resume", a.Result.RewrittenResume
	if *doc == "cover-letter" {
		title, md = "Cover Letter", a.Result.CoverLetter
	}
	if md == "" {
		fmt.Fprintf(os.Stderr, "analysis has no %s document\n", *doc)
		os.Exit(2)
	}

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		fmt.Fprintf(os.Stderr, "convert markdown: %v\n", err)
		os.Exit(2)
	}

	t, err := template.ParseFiles(*tpl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse tpl: %v\n", err)
		os.Exit(2)
	}
	subtitle := a.TargetRole
	if subtitle == "" {
		subtitle = "General application"
	}
	generated := a.CreatedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	data := map[string]interface{}{
		"Title":     title,
		"Subtitle":  subtitle,
		"Content":   template.HTML(body.String()),
		"Generated": generated.Format("2 January 2006"),
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create out: %v\n", err)
		os.Exit(2)
	}
	defer f.Close()
	if err := t.Execute(f, data); err != nil {
		fmt.Fprintf(os.Stderr, "execute tpl: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", *out)
}
