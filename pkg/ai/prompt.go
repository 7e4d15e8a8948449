package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// truncationMarker is appended whenever the resume text had to be cut to fit
// the model input budget, so the model knows the document continues.
const truncationMarker = "\n[...truncated]"

func truncateInput(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + truncationMarker
}

// buildPrompt asks for a single JSON object and nothing else. The skeleton
// and per-field rules mirror the schema the response is validated against.
func buildPrompt(resumeText, targetRole string) string {
	role := strings.TrimSpace(targetRole)
	if role == "" {
		role = "the role the resume appears to target"
	}

	return fmt.Sprintf(`You are a strict senior technical recruiter and ATS (applicant tracking system) expert.
Evaluate the resume below for %s. Be harsh and specific; generic praise is useless.

Respond with ONLY a single JSON object. No commentary, no markdown, no code fences.
The object must have exactly these fields:
 - "score": integer 0-100, overall quality for the target role
 - "atsScore": integer 0-100, how well an ATS parses and matches it
 - "strengths": array of 3-10 short strings, concrete things done well
 - "improvements": array of 3-10 short strings, concrete fixes ordered by impact
 - "keywords": array of 3-10 strings, role-relevant keywords that are missing or underused
 - "suggestions": array of 3-10 short strings, optional next actions (courses, projects, phrasing)
 - "rewrittenResume": string, the full resume rewritten in clean markdown, strongest content first,
   quantified bullet points, no fabricated employers or dates
 - "coverLetter": string, a tailored one-page cover letter in markdown for the target role

RESUME:
---
%s
---`, role, resumeText)
}
