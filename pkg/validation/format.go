// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/series-forecast/pkg/constants"
)

// OutputFormats lists the supported report formats.
var OutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatJSON,
	constants.OutputFormatXLSX,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, supported := range OutputFormats {
		if format == supported {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %s", strings.Join(OutputFormats, ", "), format)
}

// ValidateInputFormat checks if the input format is text or xlsx.
func ValidateInputFormat(format string) error {
	if format != constants.InputFormatText && format != constants.InputFormatXLSX {
		return fmt.Errorf("expected input format of %s or %s, got %s",
			constants.InputFormatText, constants.InputFormatXLSX, format)
	}
	return nil
}
