package model

// Go models that match the analysis.schema.json used for validation and rendering.

type AnalysisResult struct {
	Score           int      `bson:"score" json:"score"`
	ATSScore        int      `bson:"ats_score" json:"atsScore"`
	Strengths       []string `bson:"strengths" json:"strengths"`
	Improvements    []string `bson:"improvements" json:"improvements"`
	Keywords        []string `bson:"keywords" json:"keywords"`
	Suggestions     []string `bson:"suggestions,omitempty" json:"suggestions,omitempty"`
	RewrittenResume string   `bson:"rewritten_resume" json:"rewrittenResume"`
	CoverLetter     string   `bson:"cover_letter" json:"coverLetter"`
}
