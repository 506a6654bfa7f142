package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ParseDuration parses the "duration" option's "int + unit (s/m/h)"
// grammar from spec.md section 6, e.g. "30s", "5m", "1h".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(ErrInvalidDuration, "empty value")
	}
	unit := s[len(s)-1]
	var multiplier time.Duration
	switch unit {
	case 's':
		multiplier = time.Second
	case 'm':
		multiplier = time.Minute
	case 'h':
		multiplier = time.Hour
	default:
		return 0, errors.Wrapf(ErrInvalidDuration, "unrecognized unit in %q", s)
	}
	n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.Wrapf(ErrInvalidDuration, "invalid magnitude in %q", s)
	}
	return time.Duration(n) * multiplier, nil
}

// ParseMemory parses the "memory" option's "int + unit (k/m/g)"
// grammar from spec.md section 6, returning a byte count.
func ParseMemory(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(ErrInvalidMemory, "empty value")
	}
	unit := s[len(s)-1]
	var multiplier uint64
	switch unit {
	case 'k':
		multiplier = 1024
	case 'm':
		multiplier = 1024 * 1024
	case 'g':
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, errors.Wrapf(ErrInvalidMemory, "unrecognized unit in %q", s)
	}
	n, err := strconv.ParseUint(s[:len(s)-1], 10, 64)
	if err != nil || n == 0 {
		return 0, errors.Wrapf(ErrInvalidMemory, "invalid magnitude in %q", s)
	}
	return n * multiplier, nil
}
