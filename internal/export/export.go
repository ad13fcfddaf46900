package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/orlic/leadtap/internal/model"
)

// Format selects an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ErrEmptyDataset is returned when there are no records to export.
var ErrEmptyDataset = errors.New("no data to export")

// ParseFormat maps a user-supplied format name, case-sensitively, to a
// Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or xlsx)", s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string { return string(f) }

// columns is the fixed header order shared by the tabular formats.
var columns = []string{
	"Name", "Category", "Address", "Phone", "Email",
	"Website", "Rating", "Reviews", "Hours", "Scraped At",
}

func row(rec model.BusinessRecord) []string {
	rating := ""
	if rec.Rating > 0 {
		rating = strconv.FormatFloat(rec.Rating, 'f', -1, 64)
	}
	reviews := ""
	if rec.ReviewCount > 0 {
		reviews = strconv.Itoa(rec.ReviewCount)
	}
	scraped := ""
	if !rec.ScrapedAt.IsZero() {
		scraped = rec.ScrapedAt.Format(time.RFC3339)
	}
	return []string{
		rec.Name, rec.Category, rec.Address, rec.Phone, rec.Email,
		rec.Website, rating, reviews, rec.Hours, scraped,
	}
}

// Render encodes the records in the requested format.
func Render(format Format, records []model.BusinessRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	switch format {
	case FormatCSV:
		return renderCSV(records)
	case FormatJSON:
		return renderJSON(records)
	case FormatXLSX:
		return renderXLSX(records)
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

func renderCSV(records []model.BusinessRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := w.Write(row(rec)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderJSON(records []model.BusinessRecord) ([]byte, error) {
	return json.MarshalIndent(records, "", "  ")
}
