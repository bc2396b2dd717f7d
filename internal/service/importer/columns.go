package importer

import (
	"fmt"
	"strings"
)

// Terminal vendors are not consistent about header names; each logical field
// is matched against an ordered alias set, case-insensitively and ignoring
// surrounding whitespace.
var (
	codeAliases     = []string{"employee-code", "code", "id", "ac-no."}
	nameAliases     = []string{"name"}
	dateAliases     = []string{"date", "time"}
	clockInAliases  = []string{"clock-in", "in", "c/in"}
	clockOutAliases = []string{"clock-out", "out", "c/out"}
)

// columnMap holds resolved column indexes; -1 means the column is absent.
type columnMap struct {
	code     int
	name     int
	date     int
	clockIn  int
	clockOut int
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// resolveColumn returns the index of the first header cell matching any alias,
// or -1. Aliases are tried in order so that more specific names win.
func resolveColumn(headers []string, aliases []string) int {
	for _, alias := range aliases {
		for idx, header := range headers {
			if normalizeHeader(header) == alias {
				return idx
			}
		}
	}
	return -1
}

func resolveColumns(headers []string) columnMap {
	return columnMap{
		code:     resolveColumn(headers, codeAliases),
		name:     resolveColumn(headers, nameAliases),
		date:     resolveColumn(headers, dateAliases),
		clockIn:  resolveColumn(headers, clockInAliases),
		clockOut: resolveColumn(headers, clockOutAliases),
	}
}

// hasRequired reports whether the minimum reconcilable columns resolved:
// employee code, date and clock-in.
func (c columnMap) hasRequired() bool {
	return c.code >= 0 && c.date >= 0 && c.clockIn >= 0
}

func (c columnMap) missingRequired() error {
	var missing []string
	if c.code < 0 {
		missing = append(missing, "employee code")
	}
	if c.date < 0 {
		missing = append(missing, "date")
	}
	if c.clockIn < 0 {
		missing = append(missing, "clock-in")
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
}
