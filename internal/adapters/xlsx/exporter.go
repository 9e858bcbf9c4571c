// Package xlsx serializes the ordered review list to a spreadsheet, one row
// per review, overwriting the previous export each cycle.
package xlsx

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"market_monitor/internal/domain"
)

const sheet = "Sheet1"

var header = []any{"source", "rating", "sentiment", "text", "author", "publish_time", "link", "suggested_response"}

type Exporter struct {
	path string
}

func New(path string) *Exporter { return &Exporter{path: path} }

func (e *Exporter) Name() string { return "xlsx" }

func (e *Exporter) Deliver(_ context.Context, reviews []domain.Review) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}
	for i, rv := range reviews {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			string(rv.Source),
			floatCell(rv.Rating),
			floatCell(rv.Sentiment),
			rv.Text,
			rv.Author,
			timeCell(rv.PublishTime),
			rv.Link,
			rv.SuggestedResponse,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("xlsx: save: %w", err)
	}
	return nil
}

func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func timeCell(t *time.Time) any {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
