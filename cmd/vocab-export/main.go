// Command vocab-export writes every lesson's vocabulary to an XLSX workbook,
// one sheet per lesson, for offline study and printing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/parsi-learn/academy/internal/content"
	"github.com/parsi-learn/academy/internal/httpx"
	"github.com/parsi-learn/academy/internal/lesson"
)

func main() {
	var (
		baseURL  = flag.String("base", "http://localhost:8080/", "content base URL")
		attempts = flag.Int("attempts", 3, "fetch retry attempts")
		out      = flag.String("out", "vocabulary.xlsx", "output workbook path")
		only     = flag.String("lessons", "", "comma-separated lesson ids (default: all)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*baseURL, *attempts, *out, *only); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(baseURL string, attempts int, out, only string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := httpx.NewClient(baseURL, httpx.WithAttempts(attempts))
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	source, err := content.NewSource(client, slog.Default())
	if err != nil {
		return fmt.Errorf("building content source: %w", err)
	}

	reg, err := source.Registry(ctx)
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}
	lexicon, err := source.Lexicon(ctx)
	if err != nil {
		slog.Warn("lexicon unavailable, Persian fallbacks disabled", "error", err)
		lexicon = nil
	}

	wanted := idFilter(only)

	wb := excelize.NewFile()
	defer wb.Close()

	exported := 0
	for _, entry := range reg.Lessons {
		if wanted != nil && !wanted[entry.ID] {
			continue
		}
		l, err := source.Lesson(ctx, entry.ID)
		if err != nil {
			slog.Warn("skipping lesson", "id", entry.ID, "error", err)
			continue
		}
		groups := lesson.BuildVocabGroups(l, lexicon)
		if len(groups) == 0 {
			continue
		}
		if err := writeSheet(wb, entry.ID, groups); err != nil {
			return fmt.Errorf("lesson %s: %w", entry.ID, err)
		}
		exported++
	}
	if exported == 0 {
		return fmt.Errorf("no lessons with vocabulary found")
	}

	// The workbook starts with a default sheet we never wrote to.
	if err := wb.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	if err := wb.SaveAs(out); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	slog.Info("workbook written", "path", out, "lessons", exported)
	return nil
}

func writeSheet(wb *excelize.File, lessonID string, groups []lesson.VocabGroup) error {
	name := sheetName(lessonID)
	if _, err := wb.NewSheet(name); err != nil {
		return err
	}
	if err := wb.SetSheetRow(name, "A1", &[]string{"Word", "Persian", "Part of speech", "Category"}); err != nil {
		return err
	}

	row := 2
	for _, g := range groups {
		for _, card := range g.Items {
			fa := card.FA
			if card.Incomplete {
				fa = ""
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := wb.SetSheetRow(name, cell, &[]string{card.EN, fa, card.Pos, g.Label}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

// sheetName makes a lesson id safe for the 31-character sheet name limit.
func sheetName(id string) string {
	if len(id) > 31 {
		id = id[:31]
	}
	return id
}

func idFilter(only string) map[string]bool {
	only = strings.TrimSpace(only)
	if only == "" {
		return nil
	}
	wanted := make(map[string]bool)
	for _, id := range strings.Split(only, ",") {
		if id = strings.TrimSpace(id); id != "" {
			wanted[id] = true
		}
	}
	return wanted
}
