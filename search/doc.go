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


// Package search provides similarity search over embedded document chunks.
//
// Indexing splits document text into chunks of bounded length along sentence
// boundaries, embeds each chunk, and stores the batch in a vector repository.
// A document's chunks are always replaced as a whole, so reindexing can never
// leave stale chunks from an earlier, longer version of the text.
//
// Queries are embedded the same way and matched by inner-product similarity.
// The engine over-fetches chunk matches and deduplicates them per document:
// each document appears at most once in the results, represented by its
// best-scoring chunk with a short text preview.
package search
