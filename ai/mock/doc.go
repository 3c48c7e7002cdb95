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


// Package mock provides test doubles for the ai package interfaces.
//
// The mocks are deterministic by default (the embedder derives vectors from
// an FNV hash of the input text, so equal texts always embed identically)
// and support behavior injection through exported function fields:
//
//	analyzer := mock.NewMockAnalyzer()
//	analyzer.AnalyzeFunc = func(ctx context.Context, text, documentType string, extra map[string]any) (map[string]any, float64, error) {
//	    return nil, 0, errors.New("service down")
//	}
//
// Constructors return concrete types so tests can assert on call counts and
// reset state between cases.
package mock
