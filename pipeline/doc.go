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


// Package pipeline orchestrates document processing runs.
//
// A run moves a document through four stages in order: text extraction,
// type classification (only when no explicit type was supplied), structured
// analysis, and chunk indexing for similarity search. Each stage's output
// is persisted as it completes, so a failing run keeps the partial work of
// the stages before it.
//
// # State machine
//
// Documents move between four states:
//
//	uploaded ──Submit──▶ processing ──▶ completed
//	   ▲                     │
//	   └──── (new upload)    ▼
//	                       failed ──Submit/Reprocess──▶ processing
//
// The transition into processing is a compare-and-swap on the stored
// status, so concurrent Submit calls for one document collapse into a
// single run. Reprocess additionally accepts completed documents and
// resets failure bookkeeping.
//
// Stage work runs on an ants worker pool by default. Tests inject a
// synchronous TaskRunner to make runs deterministic.
package pipeline
