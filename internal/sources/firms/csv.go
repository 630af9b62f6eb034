package firms

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/sources"
)

// ErrMalformedRow marks a CSV row that could not be parsed. Such rows are
// skipped; the rest of the batch is kept.
var ErrMalformedRow = errors.New("malformed firms row")

// Column positions in the VIIRS area CSV:
// latitude,longitude,bright_ti4,scan,track,acq_date,acq_time,satellite,
// confidence,version,bright_ti5,frp,daynight
const (
	colLatitude   = 0
	colLongitude  = 1
	colBrightTI4  = 2
	colAcqDate    = 5
	colAcqTime    = 6
	colSatellite  = 7
	colConfidence = 8
	colFRP        = 11
	colDayNight   = 12

	minColumns = colFRP + 1
)

// Severity thresholds on fire radiative power (MW).
const (
	HighFRP = 100.0
	LowFRP  = 10.0
)

// Detection is one parsed fire detection.
type Detection struct {
	// Row is the 1-based data row number, excluding the header.
	Row        int
	Location   geo.Point
	BrightTI4  float64
	AcqDate    string
	AcqTime    string
	Satellite  string
	Confidence string
	FRP        float64
	DayNight   string
}

// Severity grades the detection: high for a high-confidence fire above
// HighFRP, low for a low-confidence fire or one below LowFRP, else medium.
func (d Detection) Severity() sources.Severity {
	switch {
	case d.Confidence == "high" && d.FRP > HighFRP:
		return sources.SeverityHigh
	case d.Confidence == "low" || d.FRP < LowFRP:
		return sources.SeverityLow
	default:
		return sources.SeverityMedium
	}
}

// ToSource converts the detection to a wildfire source.
func (d Detection) ToSource() sources.Source {
	return sources.Source{
		ID:       fmt.Sprintf("wildfire-%d-%s-%s", d.Row, d.AcqDate, d.AcqTime),
		Type:     sources.TypeWildfire,
		Name:     fmt.Sprintf("Active Fire (%s)", d.Satellite),
		Location: d.Location,
		Description: fmt.Sprintf("Fire detected at %s UTC on %s. FRP: %.1f MW. Confidence: %s",
			clockTime(d.AcqTime), d.AcqDate, d.FRP, d.Confidence),
		Severity: d.Severity(),
	}
}

// clockTime renders an HHMM acquisition time as HH:MM.
func clockTime(hhmm string) string {
	if len(hhmm) < 4 {
		hhmm = strings.Repeat("0", 4-len(hhmm)) + hhmm
	}
	return hhmm[:2] + ":" + hhmm[2:4]
}

// ParseCSV reads a FIRMS area CSV. The header row is skipped. Rows that are
// short or carry non-numeric coordinates or FRP are returned in skipped,
// each wrapping ErrMalformedRow. err is set only when the stream itself
// cannot be read.
func ParseCSV(r io.Reader) (detections []Detection, skipped []error, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	row := 0
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		row++

		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				skipped = append(skipped, fmt.Errorf("%w: row %d: %w", ErrMalformedRow, row, readErr))
				continue
			}
			return detections, skipped, fmt.Errorf("read row %d: %w", row, readErr)
		}

		if isBlank(record) {
			continue
		}

		d, rowErr := parseRow(row, record)
		if rowErr != nil {
			skipped = append(skipped, rowErr)
			continue
		}
		detections = append(detections, d)
	}

	return detections, skipped, nil
}

func parseRow(row int, record []string) (Detection, error) {
	if len(record) < minColumns {
		return Detection{}, fmt.Errorf("%w: row %d: %d columns, want at least %d", ErrMalformedRow, row, len(record), minColumns)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(record[colLatitude]), 64)
	if err != nil {
		return Detection{}, fmt.Errorf("%w: row %d: latitude: %w", ErrMalformedRow, row, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(record[colLongitude]), 64)
	if err != nil {
		return Detection{}, fmt.Errorf("%w: row %d: longitude: %w", ErrMalformedRow, row, err)
	}
	frp, err := strconv.ParseFloat(strings.TrimSpace(record[colFRP]), 64)
	if err != nil {
		return Detection{}, fmt.Errorf("%w: row %d: frp: %w", ErrMalformedRow, row, err)
	}

	loc := geo.Point{Lat: lat, Lon: lon}
	if err := loc.Validate(); err != nil {
		return Detection{}, fmt.Errorf("%w: row %d: %w", ErrMalformedRow, row, err)
	}

	// brightness is informational only
	bright, _ := strconv.ParseFloat(strings.TrimSpace(record[colBrightTI4]), 64)

	d := Detection{
		Row:        row,
		Location:   loc,
		BrightTI4:  bright,
		AcqDate:    strings.TrimSpace(record[colAcqDate]),
		AcqTime:    strings.TrimSpace(record[colAcqTime]),
		Satellite:  strings.TrimSpace(record[colSatellite]),
		Confidence: strings.TrimSpace(record[colConfidence]),
		FRP:        frp,
	}
	if len(record) > colDayNight {
		d.DayNight = strings.TrimSpace(record[colDayNight])
	}

	return d, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
