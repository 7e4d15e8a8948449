package domain

import (
	"time"

	"github.com/hamim-ifty/Atc/internal/model"
)

const (
	SourcePaste  = "paste"
	SourceUpload = "upload"
)

// Analysis is one stored resume analysis. Written once when the AI call
// succeeds and never mutated afterwards, only deleted.
type Analysis struct {
	ID         string               `bson:"_id" json:"id"`
	UserID     string               `bson:"user_id,omitempty" json:"userId,omitempty"`
	Source     string               `bson:"source" json:"source"`
	FileName   string               `bson:"file_name,omitempty" json:"fileName,omitempty"`
	TargetRole string               `bson:"target_role,omitempty" json:"targetRole,omitempty"`
	ResumeText string               `bson:"resume_text" json:"resumeText"`
	Model      string               `bson:"model" json:"model"`
	Result     model.AnalysisResult `bson:"result" json:"result"`
	CreatedAt  time.Time            `bson:"created_at" json:"createdAt"`
}

// Stats is the aggregate snapshot served by the stats endpoint.
type Stats struct {
	TotalAnalyses   int64   `json:"totalAnalyses"`
	TotalUsers      int64   `json:"totalUsers"`
	TotalComments   int64   `json:"totalComments"`
	AverageScore    float64 `json:"averageScore"`
	AverageATSScore float64 `json:"averageAtsScore"`
	AnalysesLast7d  int64   `json:"analysesLast7Days"`
}
