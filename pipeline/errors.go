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


package pipeline

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned by NewOrchestrator when no document repository is provided.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")

	// ErrExtractorRequired is returned by NewOrchestrator when no extractor is provided.
	ErrExtractorRequired = errors.New("extractor is required")

	// ErrAnalyzerRequired is returned by NewOrchestrator when no analyzer is provided.
	ErrAnalyzerRequired = errors.New("analyzer is required")

	// ErrSearchEngineRequired is returned by NewOrchestrator when no search engine is provided.
	ErrSearchEngineRequired = errors.New("search engine is required")

	// ErrExtraction marks a pipeline run that failed at the extraction stage.
	ErrExtraction = errors.New("extraction failed")

	// ErrAnalysis marks a pipeline run that failed at the analysis stage.
	ErrAnalysis = errors.New("analysis failed")

	// ErrIndexing marks a pipeline run that failed at the indexing stage.
	ErrIndexing = errors.New("indexing failed")
)
