package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAccountNumber returns an account number like "CB-2025-000042".
func FormatAccountNumber(year, seq int) string {
	return fmt.Sprintf("CB-%04d-%06d", year, seq)
}

// ParseAccountNumber parses "CB-2025-000042" into year and sequence.
func ParseAccountNumber(num string) (year, seq int, err error) {
	parts := strings.SplitN(num, "-", 3)
	if len(parts) != 3 || parts[0] != "CB" {
		return 0, 0, fmt.Errorf("invalid account number format: %q", num)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in account number %q: %w", num, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid sequence in account number %q: %w", num, err)
	}

	return year, seq, nil
}
