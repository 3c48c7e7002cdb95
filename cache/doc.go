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


// Package cache provides a TTL read cache for document status, results, and
// insights, backed by ristretto.
//
// Three namespaces are kept per document, each under its own key:
//
//   - status:{id}   — short TTL (30s); status changes while processing
//   - results:{id}  — long TTL (1h); results only change on reprocessing
//   - insights:{id} — long TTL (1h); derived from results
//
// Every write path through the pipeline calls ClearDocument after updating
// the record, so cached reads are stale for at most one poll interval.
//
// A nil *ResultCache is a valid always-miss cache. This lets the pipeline
// run with caching disabled without sprinkling nil checks through callers.
package cache
