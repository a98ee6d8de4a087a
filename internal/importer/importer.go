package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vytor/repeetcode/internal/models"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultSheet is read from XLSX files unless Options.Sheet says otherwise.
const DefaultSheet = "Sheet1"

// Options configures an import.
type Options struct {
	// Sheet is the XLSX sheet to read.
	Sheet string
}

// Result holds the parsed problems and a note for every skipped row.
type Result struct {
	Problems []models.Problem
	Skipped  []string
}

func (r *Result) skip(row int, format string, args ...any) {
	r.Skipped = append(r.Skipped, fmt.Sprintf("row %d: %s", row, fmt.Sprintf(format, args...)))
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported catalog file extension %q", ext)
	}
}

// ImportFile parses the catalog at path.
func ImportFile(path string, opts Options) (*Result, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()
	return Parse(f, format, opts)
}

// Parse reads a catalog in the given format.
func Parse(r io.Reader, format Format, opts Options) (*Result, error) {
	switch format {
	case FormatJSON:
		return parseLeetCodeJSON(r)
	case FormatCSV:
		return parseCSV(r)
	case FormatXLSX:
		return parseXLSX(r, opts)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

// leetCodeDump is the shape of LeetCode's problems list API response.
type leetCodeDump struct {
	StatStatusPairs []struct {
		Stat struct {
			Title string `json:"question__title"`
			Slug  string `json:"question__title_slug"`
		} `json:"stat"`
		Difficulty struct {
			Level int `json:"level"`
		} `json:"difficulty"`
	} `json:"stat_status_pairs"`
}

func levelToDifficulty(level int) models.OfficialDifficulty {
	switch level {
	case 1:
		return models.DifficultyEasy
	case 3:
		return models.DifficultyHard
	default:
		return models.DifficultyMedium
	}
}

func parseLeetCodeJSON(r io.Reader) (*Result, error) {
	var dump leetCodeDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, fmt.Errorf("decode problems list: %w", err)
	}
	res := &Result{}
	for i, item := range dump.StatStatusPairs {
		slug := strings.TrimSpace(item.Stat.Slug)
		title := strings.TrimSpace(item.Stat.Title)
		if slug == "" || title == "" {
			res.skip(i+1, "missing slug or title")
			continue
		}
		res.Problems = append(res.Problems, models.Problem{
			Slug:               slug,
			Title:              title,
			Tags:               []string{},
			OfficialDifficulty: levelToDifficulty(item.Difficulty.Level),
		})
	}
	return res, nil
}

func parseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows)
}

func parseXLSX(r io.Reader, opts Options) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRows(rows)
}

type columns struct {
	slug, title, difficulty, tags int
}

func headerColumns(header []string) (columns, error) {
	cols := columns{slug: -1, title: -1, difficulty: -1, tags: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "slug":
			cols.slug = i
		case "title":
			cols.title = i
		case "difficulty", "official_difficulty":
			cols.difficulty = i
		case "tags":
			cols.tags = i
		}
	}
	if cols.slug < 0 || cols.title < 0 || cols.difficulty < 0 {
		return cols, fmt.Errorf("header must name slug, title and difficulty columns")
	}
	return cols, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ";") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// fromRows maps a header row plus data rows, shared by CSV and XLSX.
func fromRows(rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog file is empty")
	}
	cols, err := headerColumns(rows[0])
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i, row := range rows[1:] {
		line := i + 2
		slug, title := cell(row, cols.slug), cell(row, cols.title)
		if slug == "" && title == "" {
			continue
		}
		if slug == "" || title == "" {
			res.skip(line, "missing slug or title")
			continue
		}
		difficulty, ok := models.ParseOfficialDifficulty(cell(row, cols.difficulty))
		if !ok {
			res.skip(line, "unknown difficulty %q", cell(row, cols.difficulty))
			continue
		}
		res.Problems = append(res.Problems, models.Problem{
			Slug:               slug,
			Title:              title,
			Tags:               splitTags(cell(row, cols.tags)),
			OfficialDifficulty: difficulty,
		})
	}
	return res, nil
}
