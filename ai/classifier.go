package ai

import "strings"

// DocumentTypeGeneral is the fallback label when no keyword set matches.
const DocumentTypeGeneral = "general"

// typeIndicators maps a document type label to the lowercase keywords that
// signal it. Order matters: the first matching set wins.
var typeIndicators = []struct {
	label    string
	keywords []string
}{
	{"resume", []string{"resume", "cv", "curriculum vitae", "experience", "education", "skills", "objective"}},
	{"contract", []string{"contract", "agreement", "terms and conditions", "whereas", "parties agree"}},
	{"invoice", []string{"invoice", "bill", "payment due", "total amount", "tax", "subtotal"}},
	{"report", []string{"report", "analysis", "findings", "conclusion", "executive summary"}},
}

// Classify detects a document type from its extracted text using keyword
// heuristics. It returns one of "resume", "contract", "invoice", "report",
// or DocumentTypeGeneral when nothing matches.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, set := range typeIndicators {
		for _, keyword := range set.keywords {
			if strings.Contains(lower, keyword) {
				return set.label
			}
		}
	}
	return DocumentTypeGeneral
}
