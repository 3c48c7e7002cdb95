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


package docflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexidocs/docflow/ai"
	"github.com/lexidocs/docflow/ai/mock"
	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/storage"
)

func setupService(t *testing.T) *Service {
	extractor := mock.NewMockExtractor()
	extractor.ExtractFunc = func(ctx context.Context, filePath string) (*ai.Extraction, error) {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		return &ai.Extraction{Text: string(data), Confidence: 1, PagesCount: 1, Language: "en"}, nil
	}

	service, err := New(filepath.Join(t.TempDir(), "docflow.db"),
		WithExtractor(extractor),
		WithAnalyzer(mock.NewMockAnalyzer()),
		WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })
	return service
}

func writeUpload(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// waitSettled polls until the document leaves the processing state.
func waitSettled(t *testing.T, service *Service, documentID string) *core.StatusSnapshot {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		doc, err := service.DocumentRepository().GetDocument(context.Background(), documentID)
		require.NoError(t, err)
		if doc.Status == core.StatusCompleted || doc.Status == core.StatusFailed {
			return &core.StatusSnapshot{DocumentID: doc.ID, Status: doc.Status, ErrorMessage: doc.ErrorMessage}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("document %s did not settle in time", documentID)
	return nil
}

func TestService_EndToEnd(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	path := writeUpload(t, "invoice.txt", "Invoice #42. Payment due within 30 days. Subtotal 100.")

	doc, err := service.AddDocument(ctx, path, "")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "invoice.txt", doc.Filename)
	assert.Equal(t, core.DocumentTypeOther, doc.DocumentType, "empty type defaults to other")
	assert.Equal(t, core.StatusUploaded, doc.Status)
	assert.Greater(t, doc.FileSizeBytes, int64(0))

	require.NoError(t, service.Submit(ctx, doc.ID))
	settled := waitSettled(t, service, doc.ID)
	require.Equal(t, core.StatusCompleted, settled.Status, "error: %s", settled.ErrorMessage)

	status, err := service.GetStatus(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, status.Status)
	assert.Equal(t, "invoice", status.DocumentType)

	results, err := service.GetResults(ctx, doc.ID)
	require.NoError(t, err)
	assert.Contains(t, results.ExtractedText, "Invoice #42")
	assert.Equal(t, "mock analysis summary", results.Analysis["summary"])

	insights, err := service.GetInsights(ctx, doc.ID)
	require.NoError(t, err)
	assert.NotNil(t, insights["document_info"])

	hits, err := service.Search(ctx, "payment due", 5, "")
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, doc.ID, hits[0].DocumentID)

	require.NoError(t, service.DeleteDocument(ctx, doc.ID))
	_, err = service.DocumentRepository().GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_AddDocumentValidation(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := service.AddDocument(ctx, "/nonexistent/file.pdf", "")
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := service.AddDocument(ctx, t.TempDir(), "")
		assert.ErrorIs(t, err, core.ErrInvalidDocument)
	})

	t.Run("explicit type preserved", func(t *testing.T) {
		path := writeUpload(t, "doc.txt", "plain content")
		doc, err := service.AddDocument(ctx, path, "report")
		require.NoError(t, err)
		assert.Equal(t, "report", doc.DocumentType)
	})
}

func TestService_Reprocess(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	path := writeUpload(t, "note.txt", "A short note about the findings in the report.")
	doc, err := service.AddDocument(ctx, path, "report")
	require.NoError(t, err)

	require.NoError(t, service.Submit(ctx, doc.ID))
	settled := waitSettled(t, service, doc.ID)
	require.Equal(t, core.StatusCompleted, settled.Status)

	require.NoError(t, service.Reprocess(ctx, doc.ID))
	settled = waitSettled(t, service, doc.ID)
	assert.Equal(t, core.StatusCompleted, settled.Status)
}

func TestService_SearchTypeFilter(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	invoicePath := writeUpload(t, "a.txt", "invoice subtotal tax due")
	reportPath := writeUpload(t, "b.txt", "findings and conclusion of the analysis")

	invoice, err := service.AddDocument(ctx, invoicePath, "invoice")
	require.NoError(t, err)
	report, err := service.AddDocument(ctx, reportPath, "report")
	require.NoError(t, err)

	require.NoError(t, service.Submit(ctx, invoice.ID))
	require.NoError(t, service.Submit(ctx, report.ID))
	waitSettled(t, service, invoice.ID)
	waitSettled(t, service, report.ID)

	hits, err := service.Search(ctx, "anything", 10, "invoice")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, invoice.ID, hits[0].DocumentID)
}
