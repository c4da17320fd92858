// Copyright 2025 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/cardex"
	"github.com/poiesic/cardex/augment"
	"github.com/poiesic/cardex/similarity"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "cardex",
		Usage: "Search and ranking engine for tagged card collections",
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
				Name:   "query",
				Usage:  "Filter, search, and sort the card corpus",
				Action: queryCommand,
				Flags: []cli.Flag{
					payloadFlag(),
					&cli.StringFlag{
						Name:    "expr",
						Aliases: []string{"e"},
						Usage:   "Boolean tag expression (AND/OR/NOT, quoted tags)",
					},
					&cli.StringFlag{
						Name:    "text",
						Aliases: []string{"t"},
						Usage:   "Free-text query; relevance order overrides --sort",
					},
					&cli.IntFlag{
						Name:  "tag-count-min",
						Usage: "Minimum tag count",
					},
					&cli.IntFlag{
						Name:  "tag-count-max",
						Usage: "Maximum tag count (0 = unbounded)",
					},
					&cli.Float64Flag{
						Name:  "rarity-min",
						Usage: "Minimum rarity sum",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort field (name, dateAdded, lastInteraction, interactionVolume, storageSize, tagCount, raritySum, favorite, weightedScore)",
						Value: "name",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Sort direction (asc, desc)",
						Value: "asc",
					},
					&cli.StringFlag{
						Name:  "weights",
						Usage: `Weight expression for weightedScore, e.g. 'weight("fantasy") = 2.0'`,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of rows to print",
						Value: 20,
					},
				},
			},
			{
				Name:   "similar",
				Usage:  "Rank documents by similarity to a reference document",
				Action: similarCommand,
				Flags: []cli.Flag{
					payloadFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Reference document id",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "tag-metric",
						Usage: "Tag-set metric (jaccard, dice, ochiai, simpson, braun-blanquet, hamming, manhattan, euclidean, cosine, overlap, none)",
						Value: "cosine",
					},
					&cli.StringFlag{
						Name:  "text-metric",
						Usage: "Text metric (cosine-tf, bm25-cosine, jaccard-words, levenshtein, jaro-winkler, lcs, semantic-hash, none)",
						Value: "cosine-tf",
					},
					&cli.Float64Flag{
						Name:  "alpha",
						Usage: "Weight of the tag half of the combined score",
						Value: 0.5,
					},
					&cli.IntFlag{
						Name:  "min-shared",
						Usage: "Prefilter: minimum shared tags with the reference",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of rows to print",
						Value: 10,
					},
				},
			},
			{
				Name:   "augment",
				Usage:  "Infer probable tags from n-gram co-occurrence",
				Action: augmentCommand,
				Flags: []cli.Flag{
					payloadFlag(),
					&cli.IntFlag{
						Name:  "ngram-min",
						Usage: "Smallest n-gram length",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "ngram-max",
						Usage: "Largest n-gram length",
						Value: 3,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum aggregate co-occurrence score",
						Value: 0.35,
					},
					&cli.IntFlag{
						Name:  "min-evidence",
						Usage: "Minimum distinct supporting n-grams",
						Value: 2,
					},
					&cli.IntFlag{
						Name:  "max-tags",
						Usage: "Maximum inferred tags per document",
						Value: 6,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Documents processed between yield points",
						Value: 200,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func payloadFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "payload",
		Aliases:  []string{"p"},
		Usage:    "Path to the JSON payload file",
		Required: true,
	}
}

// loadEngine reads the payload file and builds a ready engine.
func loadEngine(c *cli.Context) (*cardex.Engine, error) {
	data, err := os.ReadFile(c.String("payload"))
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}

	engine, err := cardex.New(cardex.WithProgress(func(fraction float64, message string) {
		fmt.Fprintf(os.Stderr, "\r%3.0f%% %s", fraction*100, message)
	}))
	if err != nil {
		return nil, err
	}

	recordErrs, err := engine.Ingest(c.Context, raw)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("ingestion failed: %w", err)
	}
	for _, recordErr := range recordErrs {
		fmt.Fprintf(os.Stderr, "skipped: %v\n", recordErr)
	}

	return engine, nil
}

func queryCommand(c *cli.Context) error {
	engine, err := loadEngine(c)
	if err != nil {
		return err
	}
	defer engine.Dispose()

	docs, err := engine.Query(cardex.QueryOptions{
		Expr: c.String("expr"),
		Filter: cardex.FilterOptions{
			TagCountMin: c.Int("tag-count-min"),
			TagCountMax: c.Int("tag-count-max"),
			RarityMin:   c.Float64("rarity-min"),
		},
		Text:      c.String("text"),
		SortField: cardex.SortField(c.String("sort")),
		SortDir:   cardex.SortDir(c.String("dir")),
		Weights:   c.String("weights"),
	})
	if err != nil {
		return err
	}

	limit := c.Int("limit")
	fmt.Printf("%d documents\n", len(docs))
	for i, doc := range docs {
		if limit > 0 && i >= limit {
			fmt.Printf("... and %d more\n", len(docs)-limit)
			break
		}
		fmt.Printf("%s  %-30s tags=%d rarity=%.3f [%s]\n",
			doc.ID, doc.Name, doc.TagCount, doc.RaritySum, strings.Join(doc.Tags, ", "))
	}

	return nil
}

func similarCommand(c *cli.Context) error {
	engine, err := loadEngine(c)
	if err != nil {
		return err
	}
	defer engine.Dispose()

	opts := similarity.RankOptions{Options: similarity.DefaultOptions()}
	opts.TagMetric = similarity.SetMetric(c.String("tag-metric"))
	opts.TextMetric = similarity.TextMetric(c.String("text-metric"))
	opts.Alpha = c.Float64("alpha")
	opts.MinSharedTags = c.Int("min-shared")
	opts.Limit = c.Int("limit")

	ref, err := engine.DocumentByID(c.String("id"))
	if err != nil {
		return err
	}

	ranked, err := engine.RankSimilar(ref.ID, opts)
	if err != nil {
		return err
	}

	fmt.Printf("documents similar to '%s'\n", ref.Name)
	for i, scored := range ranked {
		fmt.Printf("%d: %-30s [%.4f]\n", i+1, scored.Document.Name, scored.Score)
	}

	return nil
}

func augmentCommand(c *cli.Context) error {
	engine, err := loadEngine(c)
	if err != nil {
		return err
	}
	defer engine.Dispose()

	config := &augment.Config{
		NGramMin:       c.Int("ngram-min"),
		NGramMax:       c.Int("ngram-max"),
		MinScore:       c.Float64("min-score"),
		MinEvidence:    c.Int("min-evidence"),
		MaxTags:        c.Int("max-tags"),
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("batch-size"),
	}

	report, err := engine.Augment(context.Background(), config)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr)
	fmt.Printf("scanned %d documents, augmented %d, added %d tags in %v\n",
		report.DocumentsScanned, report.DocumentsAugmented, report.TagsAdded, report.Elapsed)

	docs, err := engine.Documents()
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if len(doc.InferredTags) > 0 {
			fmt.Printf("%s  %-30s += [%s]\n", doc.ID, doc.Name, strings.Join(doc.InferredTags, ", "))
		}
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
