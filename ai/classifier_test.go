package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "resume",
			text: "Curriculum Vitae\nEducation: MSc Computer Science\nSkills: Go, SQL",
			want: "resume",
		},
		{
			name: "contract",
			text: "This Agreement is entered into, WHEREAS the parties agree as follows",
			want: "contract",
		},
		{
			name: "invoice",
			text: "Invoice #4211\nSubtotal: 100.00\nPayment due within 30 days",
			want: "invoice",
		},
		{
			name: "report",
			text: "Quarterly Report\nExecutive Summary\nOur findings show growth",
			want: "report",
		},
		{
			name: "general fallback",
			text: "Dear neighbor, the annual street party is on Saturday.",
			want: DocumentTypeGeneral,
		},
		{
			name: "empty text",
			text: "",
			want: DocumentTypeGeneral,
		},
		{
			name: "case insensitive",
			text: "EXECUTIVE SUMMARY OF FINDINGS",
			want: "report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// Resume keywords are checked before report keywords.
	text := "Report on candidate experience and education"
	assert.Equal(t, "resume", Classify(text))
}
