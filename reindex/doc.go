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


// Package reindex rebuilds the similarity search index across the whole
// corpus. It is the maintenance counterpart to per-document processing:
// when the embedding model changes, every stored vector becomes stale at
// once, and each completed document must be re-chunked and re-embedded
// from its persisted extracted text.
//
// The run is sequential and resumable in effect: indexing replaces a
// document's chunks wholesale, so rerunning after an interruption simply
// redoes some documents. Per-document failures are retried with
// exponential backoff before the run aborts. Progress is reported to a
// writer so long runs are observable from the command line.
package reindex
