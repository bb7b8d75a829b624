package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column headers the retainer sheet must / may carry.
var (
	RequiredColumns = []string{"ID", "Name", "Email"}
	OptionalColumns = []string{"Phone", "State", "Zip Code", "Age", "First Name Injured", "Last Name Injured"}
)

// Row is one cleaned spreadsheet row.
type Row struct {
	ExternalID       string
	Name             string
	Email            string
	Phone            string
	State            string
	ZipCode          string
	Age              *int
	FirstNameInjured string
	LastNameInjured  string
}

// Valid reports whether the required cells are present.
func (r Row) Valid() bool {
	return r.ExternalID != "" && r.Name != "" && r.Email != ""
}

// ReadRecipientSheet parses the first sheet of an .xlsx upload into cleaned
// rows. Missing required columns fail the whole file; bad individual rows are
// returned as-is and skipped by the caller.
func ReadRecipientSheet(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := map[string]int{}
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	out := make([]Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		out = append(out, cleanRow(cells, header))
	}
	return out, nil
}

func cleanRow(cells []string, header map[string]int) Row {
	get := func(col string) string {
		idx, ok := header[col]
		if !ok || idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}

	row := Row{
		ExternalID:       get("ID"),
		Name:             get("Name"),
		Email:            strings.ToLower(get("Email")),
		Phone:            get("Phone"),
		State:            get("State"),
		ZipCode:          get("Zip Code"),
		FirstNameInjured: get("First Name Injured"),
		LastNameInjured:  get("Last Name Injured"),
	}

	if raw := get("Age"); raw != "" {
		// Excel often hands integers back as "16.0".
		if age, err := strconv.Atoi(strings.TrimSuffix(raw, ".0")); err == nil && age >= 0 && age <= 120 {
			row.Age = &age
		}
	}

	return row
}
