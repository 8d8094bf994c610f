package enrich

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Master file names looked for under the data directory.
const (
	pincodeCSV   = "pincode_master.csv"
	pincodeXLSX  = "pincode_master.xlsx"
	employeeXLSX = "employee_master.xlsx"
)

// Load builds the enrichment store from master files under dir. Missing or
// unreadable masters are logged and skipped: the caller always gets a usable
// Store, possibly with empty tables. Load is safe to retry; each call builds
// a fresh immutable Store.
func Load(dir string) *Store {
	s := Empty()
	log := zap.L().With(zap.String("dir", dir))

	if rows, err := readMaster(dir); err != nil {
		log.Warn("enrich: pincode master unavailable, geography lookups disabled", zap.Error(err))
	} else {
		s.loadPincodes(rows)
		log.Info("enrich: loaded pincode master", zap.Int("pincodes", len(s.pincodes)))
	}

	if mobiles, err := readEmployeeMaster(filepath.Join(dir, employeeXLSX)); err != nil {
		log.Warn("enrich: employee master unavailable, employee segregation disabled", zap.Error(err))
	} else {
		for _, m := range mobiles {
			if m = normalizeMobile(m); m != "" {
				s.employees[m] = struct{}{}
			}
		}
		log.Info("enrich: loaded employee master", zap.Int("employees", len(s.employees)))
	}

	return s
}

func (s *Store) loadPincodes(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	cols := headerIndex(rows[0])
	pcIdx, cityIdx, stateIdx := cols["pincode"], cols["city"], cols["state"]
	if pcIdx < 0 {
		zap.L().Warn("enrich: pincode master missing Pincode column")
		return
	}
	for _, row := range rows[1:] {
		pc := normalizePincode(cell(row, pcIdx))
		if pc == "" {
			continue
		}
		s.pincodes[pc] = Place{
			City:  cell(row, cityIdx),
			State: cell(row, stateIdx),
		}
	}
}

// readMaster prefers the CSV master and falls back to XLSX.
func readMaster(dir string) ([][]string, error) {
	csvPath := filepath.Join(dir, pincodeCSV)
	if _, err := os.Stat(csvPath); err == nil {
		return readCSV(csvPath)
	}
	return readXLSX(filepath.Join(dir, pincodeXLSX))
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}
	if len(f.Sheets) == 0 {
		return nil, nil
	}
	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readEmployeeMaster(path string) ([]string, error) {
	rows, err := readXLSX(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	idx := headerIndex(rows[0])["mobile"]
	if idx < 0 {
		zap.L().Warn("enrich: employee master missing Mobile column")
		return nil, nil
	}
	var mobiles []string
	for _, row := range rows[1:] {
		if m := cell(row, idx); m != "" {
			mobiles = append(mobiles, m)
		}
	}
	return mobiles, nil
}

// headerIndex maps lower-cased, trimmed header names to column positions.
// Missing names map to -1.
func headerIndex(header []string) map[string]int {
	idx := map[string]int{"pincode": -1, "city": -1, "state": -1, "mobile": -1}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
