// Copyright 2025 Symposic Labs
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/symposic/agendaquery"
	"github.com/symposic/agendaquery/ai"
	"github.com/symposic/agendaquery/ai/openai"
	"github.com/symposic/agendaquery/corpus"
	"github.com/symposic/agendaquery/dictionary"
	"github.com/symposic/agendaquery/search"
	"github.com/symposic/agendaquery/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "agendaquery",
		Usage: "Natural-language filtering over conference presentation records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Usage:  "Run a query against a CSV corpus",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "corpus",
						Aliases:  []string{"c"},
						Usage:    "Path to corpus CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:   "date",
						Usage:  "Reference date for relative expressions (YYYY-MM-DD)",
						Layout: "2006-01-02",
					},
					&cli.StringSliceFlag{
						Name:  "theme",
						Usage: "Restrict to a theme/track (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "session",
						Usage: "Restrict to a session type (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "assume-or",
						Usage: "Read an ambiguous bare conjunction as OR instead of asking",
					},
					&cli.BoolFlag{
						Name:  "narrate",
						Usage: "Generate an LLM narration of the results",
					},
					&cli.BoolFlag{
						Name:  "extract",
						Usage: "Interpret the query with the LLM keyword extractor",
					},
					&cli.StringFlag{
						Name:  "cache-db",
						Usage: "Path to BadgerDB directory for the narration report cache",
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "extractor-model",
						Usage: "Keyword extraction model name",
					},
					&cli.StringFlag{
						Name:  "narrator-model",
						Usage: "Narration model name",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum records to print",
						Value: 20,
					},
				},
			},
			{
				Name:   "load",
				Usage:  "Parse and validate a CSV corpus without querying it",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "corpus",
						Aliases:  []string{"c"},
						Usage:    "Path to corpus CSV file",
						Required: true,
					},
				},
			},
			{
				Name:   "dict",
				Usage:  "Show the embedded entity dictionary",
				Action: dictCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	opts := []agendaquery.EngineOption{}

	needsAI := c.Bool("narrate") || c.Bool("extract")
	if needsAI {
		aiConfig := ai.NewConfig(
			ai.WithHost(c.String("ai-host")),
			ai.WithExtractorModel(stringOrDefault(c.String("extractor-model"), ai.DefaultConfig().ExtractorModel)),
			ai.WithNarratorModel(stringOrDefault(c.String("narrator-model"), ai.DefaultConfig().NarratorModel)),
		)
		provider, err := openai.NewProvider(aiConfig)
		if err != nil {
			return fmt.Errorf("failed to create AI provider: %w", err)
		}
		opts = append(opts, agendaquery.WithAIProvider(provider))
	}

	if cachePath := c.String("cache-db"); cachePath != "" {
		cache, err := badger.NewReportCache(cachePath)
		if err != nil {
			return fmt.Errorf("failed to open report cache: %w", err)
		}
		opts = append(opts, agendaquery.WithReportCache(cache))
	}

	engine, err := agendaquery.NewEngine(opts...)
	if err != nil {
		return err
	}
	defer engine.Close()

	file, err := os.Open(c.String("corpus"))
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	loaded, err := engine.LoadCorpusCSV(ctx, file)
	file.Close()
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Loaded %d records\n", loaded)

	req := agendaquery.Request{
		Query:               c.String("query"),
		AssumeOrOnAmbiguity: c.Bool("assume-or"),
		UseExtractor:        c.Bool("extract"),
		Narrate:             c.Bool("narrate"),
	}
	if ts := c.Timestamp("date"); ts != nil {
		req.ReferenceDate = *ts
	}
	if themes, sessions := c.StringSlice("theme"), c.StringSlice("session"); len(themes) > 0 || len(sessions) > 0 {
		req.Prefilter = &search.Prefilter{Themes: themes, SessionTypes: sessions}
	}

	resp, err := engine.Ask(ctx, req)
	if err != nil {
		return err
	}

	if resp.Clarification != nil {
		fmt.Println(resp.Clarification.Question)
		for i, option := range resp.Clarification.Options {
			fmt.Printf("  %d) %s\n", i+1, option)
		}
		return nil
	}

	printResponse(resp, c.Int("limit"))
	return nil
}

func printResponse(resp *agendaquery.Response, limit int) {
	packaged := resp.Packaged

	fmt.Printf("Intent: %s\n", packaged.Intent.String())
	if len(packaged.Answer) > 0 {
		fmt.Printf("Answer: %s\n", strings.Join(packaged.Answer, "; "))
	}
	fmt.Printf("Matches: %d", packaged.Total)
	if packaged.Truncated {
		fmt.Printf(" (showing first %d)", len(packaged.Records))
	}
	fmt.Println()

	for _, assumption := range packaged.Assumptions {
		fmt.Printf("  note: %s\n", assumption)
	}

	shown := 0
	for _, record := range packaged.Records {
		if shown >= limit {
			fmt.Printf("  ... %d more\n", len(packaged.Records)-shown)
			break
		}
		fmt.Printf("  %s: %s", record["id"], record["title"])
		if speakers := record["speakers"]; speakers != "" {
			fmt.Printf(" (%s)", speakers)
		}
		fmt.Println()
		shown++
	}

	if resp.Narration != "" {
		fmt.Println()
		if resp.NarrationCached {
			fmt.Println("Narration (cached):")
		} else {
			fmt.Println("Narration:")
		}
		fmt.Println(resp.Narration)
	}
}

func loadCommand(c *cli.Context) error {
	file, err := os.Open(c.String("corpus"))
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer file.Close()

	records, err := corpus.ReadRecords(file)
	if err != nil {
		return fmt.Errorf("corpus rejected: %w", err)
	}

	dateless := 0
	for _, record := range records {
		if record.Date.IsZero() {
			dateless++
		}
	}

	fmt.Printf("%d records parsed\n", len(records))
	if dateless > 0 {
		fmt.Printf("%d records have no parseable date\n", dateless)
	}
	return nil
}

func dictCommand(c *cli.Context) error {
	dict, err := dictionary.Default()
	if err != nil {
		return err
	}
	fmt.Printf("Dictionary version %s\n", dict.Version())
	fmt.Printf("Longest alias phrase: %d words\n", dict.MaxPhraseWords())
	return nil
}

func stringOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
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
