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


// Package openai implements the ai.Analyzer and ai.Embedder interfaces
// against OpenAI-compatible APIs.
//
// It works with any service exposing the OpenAI wire protocol, including
// Ollama, LocalAI, and vLLM, as well as OpenAI itself. Authentication uses
// a placeholder token by default since local services typically require none.
//
// The analyzer asks the model for JSON matching a per-document-type schema
// and repairs common formatting mistakes before parsing. Output that still
// fails to parse is degraded to a raw-text result rather than an error, so
// one flaky completion does not fail a whole pipeline run.
package openai
