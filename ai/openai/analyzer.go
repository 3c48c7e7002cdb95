// Copyright 2025 Lexidocs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/lexidocs/docflow/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// degradedConfidence is reported when the model's output could not be parsed
// as JSON and the raw text is returned instead.
const degradedConfidence = 0.3

// Analyzer implements ai.Analyzer using OpenAI-compatible chat APIs.
type Analyzer struct {
	client         llms.Model
	maxPromptChars int
	logger         *slog.Logger
}

// newAnalyzer is an internal constructor that returns the concrete type.
func newAnalyzer(config *ai.Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/analysis
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.AnalyzerHost),
		openai.WithToken("none"),
		openai.WithModel(config.AnalyzerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		client:         client,
		maxPromptChars: config.MaxPromptChars,
		logger:         slog.Default().With("component", "openai-analyzer"),
	}, nil
}

// NewAnalyzer creates a new document analyzer using the provided configuration.
//
// Returns ai.Analyzer interface to enforce abstraction.
func NewAnalyzer(config *ai.Config) (ai.Analyzer, error) {
	return newAnalyzer(config)
}

// Analyze runs a structured analysis of the document text through the model.
//
// Unparsable model output is not treated as an error: the raw response is
// returned under the "raw" key with a degraded confidence score. Errors are
// reserved for transport or service failures.
func (a *Analyzer) Analyze(ctx context.Context, text, documentType string, extra map[string]any) (map[string]any, float64, error) {
	prompt := buildAnalysisPrompt(text, documentType, a.maxPromptChars)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(analysisSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := a.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(1024),
		llms.WithJSONMode())
	if err != nil {
		a.logger.Error("failed to generate analysis", "document_type", documentType, "err", err)
		return nil, 0, err
	}

	if len(response.Choices) < 1 {
		a.logger.Warn("no choices returned from model", "document_type", documentType)
		return map[string]any{"raw": ""}, degradedConfidence, nil
	}

	// Strip markdown code fences if present
	responseText := strings.TrimSpace(response.Choices[0].Content)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	// Try to repair common JSON issues
	repaired := repairJSON(responseText)

	var result map[string]any
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		a.logger.Warn("analysis response is not valid JSON, degrading to raw text",
			"document_type", documentType,
			"err", err)
		return map[string]any{"raw": responseText}, degradedConfidence, nil
	}

	confidence := scoreAnalysis(result)
	a.logger.Debug("analysis complete",
		"document_type", documentType,
		"fields", len(result),
		"confidence", confidence)

	return result, confidence, nil
}

// scoreAnalysis estimates a confidence score for a parsed analysis based on
// how much structured data the model produced.
func scoreAnalysis(result map[string]any) float64 {
	confidence := 0.5

	if _, ok := result["document_type"]; ok {
		confidence += 0.1
	}
	if summary, ok := result["summary"].(string); ok && len(summary) > 20 {
		confidence += 0.1
	}
	if _, ok := result["key_entities"]; ok {
		confidence += 0.1
	} else if _, ok := result["candidate_info"]; ok {
		confidence += 0.1
	}

	populated := 0
	for _, v := range result {
		if v != nil {
			populated++
		}
	}
	confidence += min(0.2, float64(populated)*0.02)

	return min(1.0, confidence)
}
