package validator

import (
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Month key validation: YYYY-MM
var monthKeyRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func IsValidMonthKey(monthKey string) bool {
	return monthKeyRegex.MatchString(monthKey)
}

// Spreadsheet extension check for upload handlers.
func IsSupportedSpreadsheet(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".xls") || strings.HasSuffix(lower, ".xlsx")
}
