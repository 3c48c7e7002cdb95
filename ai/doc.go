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


// Package ai provides abstractions for the AI services used in Docflow.
//
// This package defines interfaces for text extraction, document analysis,
// and embeddings. It follows the dependency inversion principle, allowing
// the pipeline and search layers to depend on abstractions rather than
// concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Extractor: Pulls plain text out of uploaded files
//   - Analyzer: Produces a structured analysis of extracted text
//   - Embedder: Generates vector embeddings from text
//
// It also provides Classify, a pure keyword heuristic that labels a
// document by its content when no explicit type was supplied at upload.
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/openai: Production Analyzer and Embedder using OpenAI-compatible APIs
//   - ai/pdf: Extractor for PDF files with native text layers
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewAnalyzer, openai.NewEmbedder, pdf.NewExtractor)
// return INTERFACE types to enforce abstraction and prevent accidental coupling
// to concrete implementations.
//
// Test utility constructors (mock.NewMockExtractor, mock.NewMockAnalyzer,
// mock.NewMockEmbedder) return CONCRETE types to enable test assertions and
// behavior injection via the mock's public fields and methods.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	analyzer, err := openai.NewAnalyzer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, confidence, err := analyzer.Analyze(ctx, text, "contract", nil)
package ai
