package promo

import (
	"context"
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlWindow mirrors Window but keeps the end date as the raw string, so one
// malformed row is skipped instead of failing the whole table.
type yamlWindow struct {
	ActiveUntil       string `yaml:"active_until"`
	Type              Type   `yaml:"type"`
	PromoCodeID       string `yaml:"promo_code_id"`
	Message           string `yaml:"message"`
	ButtonText        string `yaml:"button_text"`
	SalePriceText     string `yaml:"sale_price_text"`
	OriginalPriceText string `yaml:"original_price_text"`
}

type yamlFile struct {
	Promotions []yamlWindow `yaml:"promotions"`
}

type yamlSource struct {
	path string
}

// NewYAMLSource reads the promotion table from a YAML file on every Load.
// The resolver's decision cache bounds how often the file is actually read.
//
// Expected shape:
//
//	promotions:
//	  - active_until: "2026-09-15"
//	    type: DISCOUNT
//	    promo_code_id: promo_123
//	    message: "Launch week sale"
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

// dateFormats are tried in order when parsing a row's end date.
var dateFormats = []string{time.RFC3339, "2006-01-02"}

func (s *yamlSource) Load(ctx context.Context) ([]Window, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrSourceUnavailable, err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(ErrMalformedTable, err)
	}

	windows := make([]Window, 0, len(file.Promotions))
	for _, row := range file.Promotions {
		// Rows with a missing or unparseable date are carried with a zero
		// ActiveUntil; the resolver skips them during the scan.
		until, _ := parseDate(row.ActiveUntil)
		windows = append(windows, Window{
			ActiveUntil:       until,
			Type:              row.Type,
			PromoCodeID:       row.PromoCodeID,
			Message:           row.Message,
			ButtonText:        row.ButtonText,
			SalePriceText:     row.SalePriceText,
			OriginalPriceText: row.OriginalPriceText,
		})
	}
	return windows, nil
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
