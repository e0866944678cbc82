package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadCompanyNames reads the uploaded spreadsheet and returns the company
// names to analyze. The name column is found by header heuristics; when no
// header matches, the first column is assumed.
func LoadCompanyNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	nameIdx := -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		if strings.Contains(l, "company") || strings.Contains(l, "name") {
			nameIdx = i
			break
		}
	}
	if nameIdx == -1 {
		nameIdx = 0
	}

	var names []string
	for i, r := range rows {
		if i == 0 {
			continue
		}
		if nameIdx >= len(r) {
			continue
		}
		name := strings.TrimSpace(r[nameIdx])
		if name == "" {
			// skip blank rows quietly
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no company names found in column %d", nameIdx+1)
	}
	return names, nil
}
