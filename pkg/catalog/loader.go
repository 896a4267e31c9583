package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"cropcal/entities"
)

// LoadFile reads crop definitions from path. The format follows the extension:
// .csv, .xlsx, .yaml/.yml or .html/.htm (first table on the page).
func LoadFile(path string) ([]entities.CropDefinition, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return loadXLSX(path)
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadYAML(f)
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadHTML(f)
	default:
		return nil, fmt.Errorf("catalog: unsupported file type %q", filepath.Ext(path))
	}
}

func ReadCSV(r io.Reader) ([]entities.CropDefinition, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog csv header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		rows = append(rows, rec)
	}
	return parseRows(head, rows)
}

func loadXLSX(path string) ([]entities.CropDefinition, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("catalog xlsx: no sheets")
	}
	all, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.New("catalog xlsx: empty sheet")
	}
	return parseRows(all[0], all[1:])
}

func ReadYAML(r io.Reader) ([]entities.CropDefinition, error) {
	var doc struct {
		Crops []entities.CropDefinition `yaml:"crops"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}
	return doc.Crops, nil
}

// ReadHTML parses the first <table> of a page, header from <th> (or the first row).
func ReadHTML(r io.Reader) ([]entities.CropDefinition, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("catalog html: no table found")
	}
	var grid [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(cell.Text()))
		})
		if len(row) > 0 {
			grid = append(grid, row)
		}
	})
	if len(grid) == 0 {
		return nil, errors.New("catalog html: empty table")
	}
	return parseRows(grid[0], grid[1:])
}

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// parseRows maps tabular data onto definitions, accepting several header aliases.
func parseRows(head []string, rows [][]string) ([]entities.CropDefinition, error) {
	hmap := map[string]int{}
	for i, h := range head {
		hmap[normHeader(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[normHeader(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cID := findAny("id", "crop_id", "crop")
	cName := findAny("display_name", "name", "displayname", "label")
	cIcon := findAny("icon", "emoji")
	cDays := findAny("growth_duration_days", "days", "duration", "growth_days")
	if cID == -1 || cName == -1 || cDays == -1 {
		return nil, fmt.Errorf("catalog: missing required columns, found headers %v; need id, name, days", head)
	}

	var out []entities.CropDefinition
	for n, rec := range rows {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		if get(cID) == "" {
			continue
		}
		days, err := strconv.Atoi(get(cDays))
		if err != nil {
			return nil, fmt.Errorf("catalog row %d (%s): bad duration %q", n+1, get(cID), get(cDays))
		}
		out = append(out, entities.CropDefinition{
			ID:                 get(cID),
			DisplayName:        get(cName),
			Icon:               get(cIcon),
			GrowthDurationDays: days,
		})
	}
	return out, nil
}
