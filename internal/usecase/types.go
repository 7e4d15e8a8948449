package usecase

// AnalyzeInput carries one analysis request into the orchestrator. Pasted
// text arrives in ResumeText; uploads arrive as a saved file path plus the
// original name and declared MIME type.
type AnalyzeInput struct {
	UserID     string
	TargetRole string
	Source     string
	FileName   string

	ResumeText string
	FilePath   string
	MIMEType   string
}
