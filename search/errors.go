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


package search

import "errors"

var (
	// ErrVectorRepositoryRequired is returned by NewEngine when no vector repository is provided.
	ErrVectorRepositoryRequired = errors.New("vector repository is required")

	// ErrEmbedderRequired is returned by NewEngine when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexing wraps failures while chunking, embedding, or storing a document.
	ErrIndexing = errors.New("indexing failed")

	// ErrSearch wraps failures while embedding a query or scanning the index.
	ErrSearch = errors.New("search failed")

	// ErrInvalidLimit is returned when a search limit is zero or negative.
	ErrInvalidLimit = errors.New("limit must be positive")
)
