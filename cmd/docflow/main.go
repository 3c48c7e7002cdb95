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


package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lexidocs/docflow"
	"github.com/lexidocs/docflow/ai"
	"github.com/lexidocs/docflow/core"
	"github.com/lexidocs/docflow/reindex"
	"github.com/lexidocs/docflow/storage"
)

func main() {
	app := &cli.App{
		Name:   "docflow",
		Usage:  "Document enrichment pipeline with similarity search",
		Flags:  globalFlags(),
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Register a file and start processing it",
				Action: addCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the file to process",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Document type (resume, contract, invoice, report); classified from content when omitted",
					},
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Block until processing settles",
					},
				),
			},
			{
				Name:      "status",
				Usage:     "Show the processing status of a document",
				ArgsUsage: "<document-id>",
				Action:    statusCommand,
				Flags:     serviceFlags(),
			},
			{
				Name:      "results",
				Usage:     "Show the processing results of a completed document",
				ArgsUsage: "<document-id>",
				Action:    resultsCommand,
				Flags:     serviceFlags(),
			},
			{
				Name:      "insights",
				Usage:     "Show derived insights for a completed document",
				ArgsUsage: "<document-id>",
				Action:    insightsCommand,
				Flags:     serviceFlags(),
			},
			{
				Name:   "search",
				Usage:  "Similarity search over processed documents",
				Action: searchCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Search query text",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of documents to return",
						Value: 5,
					},
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Restrict results to one document type",
					},
				),
			},
			{
				Name:      "reprocess",
				Usage:     "Run the pipeline again for a settled document",
				ArgsUsage: "<document-id>",
				Action:    reprocessCommand,
				Flags: append(serviceFlags(),
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Block until processing settles",
					},
				),
			},
			{
				Name:      "delete",
				Usage:     "Delete a document and its search index entries",
				ArgsUsage: "<document-id>",
				Action:    deleteCommand,
				Flags:     serviceFlags(),
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the search index for all completed documents",
				Action: reindexCommand,
				Flags: append(serviceFlags(),
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts per document",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set logging level (debug, info, warn, error)",
			Value:   "info",
		},
	}
}

func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the database directory",
			Value:   "docflow.db",
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL for analysis and embeddings",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "analyzer-model",
			Usage: "Analyzer model name",
			Value: "qwen2.5:3b",
		},
	}
}

func openService(c *cli.Context) (*docflow.Service, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAnalyzerModel(c.String("analyzer-model")),
	)

	service, err := docflow.New(c.String("db"), docflow.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open service: %w", err)
	}
	return service, nil
}

func documentIDArg(c *cli.Context) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", fmt.Errorf("document ID argument is required")
	}
	return id, nil
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	doc, err := service.AddDocument(ctx, c.String("file"), c.String("type"))
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	fmt.Printf("added document %s (%s)\n", doc.ID, doc.Filename)

	if err := service.Submit(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to start processing: %w", err)
	}
	fmt.Println("processing started")

	if c.Bool("wait") {
		return waitForDocument(ctx, service, doc.ID)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	id, err := documentIDArg(c)
	if err != nil {
		return err
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	snapshot, err := service.GetStatus(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("document: %s\n", snapshot.DocumentID)
	fmt.Printf("filename: %s\n", snapshot.Filename)
	fmt.Printf("type:     %s\n", snapshot.DocumentType)
	fmt.Printf("status:   %s\n", snapshot.Status)
	if snapshot.ErrorMessage != "" {
		fmt.Printf("error:    %s (retries: %d)\n", snapshot.ErrorMessage, snapshot.RetryCount)
	}
	return nil
}

func resultsCommand(c *cli.Context) error {
	id, err := documentIDArg(c)
	if err != nil {
		return err
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	results, err := service.GetResults(context.Background(), id)
	if err != nil {
		if errors.Is(err, core.ErrInvalidState) {
			return fmt.Errorf("document is not completed yet: %w", err)
		}
		return err
	}

	return printJSON(results)
}

func insightsCommand(c *cli.Context) error {
	id, err := documentIDArg(c)
	if err != nil {
		return err
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	insights, err := service.GetInsights(context.Background(), id)
	if err != nil {
		return err
	}

	return printJSON(insights)
}

func searchCommand(c *cli.Context) error {
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	hits, err := service.Search(context.Background(), c.String("query"), c.Int("limit"), c.String("type"))
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for i, hit := range hits {
		fmt.Printf("%d. %s (score %.4f, chunk %d)\n", i+1, hit.DocumentID, hit.Score, hit.ChunkIndex)
		fmt.Printf("   %s\n", hit.TextPreview)
	}
	return nil
}

func reprocessCommand(c *cli.Context) error {
	id, err := documentIDArg(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.Reprocess(ctx, id); err != nil {
		return err
	}
	fmt.Println("reprocessing started")

	if c.Bool("wait") {
		return waitForDocument(ctx, service, id)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	id, err := documentIDArg(c)
	if err != nil {
		return err
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.DeleteDocument(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("deleted document %s\n", id)
	return nil
}

func reindexCommand(c *cli.Context) error {
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	config := &reindex.Config{
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	reindexer, err := reindex.NewReindexer(service.DocumentRepository(), service.SearchEngine(), config, os.Stderr)
	if err != nil {
		return err
	}
	return reindexer.Run(context.Background())
}

// waitForDocument polls until the document settles, then reports the outcome.
func waitForDocument(ctx context.Context, service *docflow.Service, documentID string) error {
	for {
		snapshot, err := service.GetStatus(ctx, documentID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("document %s disappeared while waiting", documentID)
			}
			return err
		}

		switch snapshot.Status {
		case core.StatusCompleted:
			fmt.Println("processing completed")
			return nil
		case core.StatusFailed:
			return fmt.Errorf("processing failed: %s", snapshot.ErrorMessage)
		}

		time.Sleep(500 * time.Millisecond)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
