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


// Package storage provides the storage abstraction layer for docflow.
//
// This package defines repository interfaces that decouple storage
// implementation from pipeline logic. It allows different storage backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Repositories
//
//   - DocumentRepository: persisted document records, including the atomic
//     compare-and-swap status transition the pipeline relies on as its only
//     cross-request synchronization point
//   - VectorRepository: chunk embeddings and nearest-neighbor queries
//
// # Constructor Return Type Pattern
//
// Public constructors of backend packages return interface types to enforce
// abstraction:
//
//	docs := badger.NewDocumentRepository(backend) // storage.DocumentRepository
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. CompareAndSwapStatus in particular must
// guarantee that of two concurrent identical transitions, exactly one wins.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support.
package storage
