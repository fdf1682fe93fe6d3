package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Column headers of the festival spreadsheet export. Headers are matched
// after trimming and upper-casing.
const (
	ColName          = "NAME"
	ColCountry       = "COUNTRY"
	ColTown          = "TOWN"
	ColWebsite       = "WEBSITE"
	ColEmail         = "EMAIL"
	ColContactPerson = "CONTACT PERSON"
	ColStartDate     = "START DATE"
	ColEndDate       = "END DATE"
	ColEventDate     = "EVENT DATE"
	ColComment       = "COMMENT"
	ColType          = "TYPE"

	// ColAppliedPrefix starts per-season columns such as "APPLIED 2025",
	// flagging that the company applied for that cycle.
	ColAppliedPrefix = "APPLIED "
)

// Delimiter separates CSV fields in the export.
const Delimiter = ';'

// FestivalRow is one data line of the import file, keyed by column.
type FestivalRow struct {
	Line          int // 1-based line number in the file, header included
	Name          string
	Country       string
	Town          string
	Website       string
	Email         string
	ContactPerson string
	StartDate     string
	EndDate       string
	EventDate     string
	Comment       string
	Type          string
	Applied       map[int]string // cycle year -> APPLIED cell, blank cells left out
}

// ImportFile is a parsed import file.
type ImportFile struct {
	Headers []string
	Rows    []FestivalRow
	// AppliedYears lists the cycle years with an APPLIED column, ascending.
	AppliedYears []int
}

// LoadFestivalCSV reads and parses a festival import file.
func LoadFestivalCSV(path string) (*ImportFile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ReadFestivalCSV(fh)
}

// ReadFestivalCSV parses ';'-delimited festival rows. The NAME column is
// required; every other column is optional.
func ReadFestivalCSV(r io.Reader) (*ImportFile, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing import file: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("parsing import file header: %w", err)
	}

	index := make(map[string]int, len(header))
	headers := make([]string, len(header))
	for i, h := range header {
		h = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		headers[i] = h
		index[h] = i
	}
	if _, ok := index[ColName]; !ok {
		return nil, fmt.Errorf("parsing import file: missing %s column", ColName)
	}

	file := &ImportFile{Headers: headers}
	appliedCols := make(map[int]int)
	for i, h := range headers {
		if year, ok := appliedYear(h); ok {
			appliedCols[year] = i
			file.AppliedYears = append(file.AppliedYears, year)
		}
	}
	sort.Ints(file.AppliedYears)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if isEmptyRecord(rec) {
			continue
		}
		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		var applied map[int]string
		for year, i := range appliedCols {
			if i >= len(rec) || strings.TrimSpace(rec[i]) == "" {
				continue
			}
			if applied == nil {
				applied = make(map[int]string)
			}
			applied[year] = strings.TrimSpace(rec[i])
		}
		file.Rows = append(file.Rows, FestivalRow{
			Line:          line,
			Name:          cell(ColName),
			Country:       cell(ColCountry),
			Town:          cell(ColTown),
			Website:       cell(ColWebsite),
			Email:         cell(ColEmail),
			ContactPerson: cell(ColContactPerson),
			StartDate:     cell(ColStartDate),
			EndDate:       cell(ColEndDate),
			EventDate:     cell(ColEventDate),
			Comment:       cell(ColComment),
			Type:          cell(ColType),
			Applied:       applied,
		})
	}
	return file, nil
}

// appliedYear reads the cycle year out of an "APPLIED <year>" header.
func appliedYear(header string) (int, bool) {
	rest, ok := strings.CutPrefix(header, ColAppliedPrefix)
	if !ok {
		return 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || year < 1900 || year > 2999 {
		return 0, false
	}
	return year, true
}

// AppliedColumn names the APPLIED column for year.
func AppliedColumn(year int) string {
	return ColAppliedPrefix + strconv.Itoa(year)
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
