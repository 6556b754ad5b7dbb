package parser

import (
	"fmt"
	"strconv"

	"github.com/TFMV/cohrank/types"
)

// parseMetricToken splits NAME=MEAN/UNC without regular expressions.
// NAME is [A-Z0-9]+, MEAN and UNC are [0-9.]+ and must parse as floats.
func parseMetricToken(tok string) (types.MetricReading, error) {
	eq := -1
	for i := 0; i < len(tok); i++ {
		if tok[i] == '=' {
			eq = i
			break
		}
	}
	if eq <= 0 {
		return types.MetricReading{}, fmt.Errorf("%w: %q: expected NAME=MEAN/UNC", types.ErrMalformedMetricToken, tok)
	}

	name := tok[:eq]
	if !isMetricName(name) {
		return types.MetricReading{}, fmt.Errorf("%w: %q: metric name must be uppercase alphanumeric", types.ErrMalformedMetricToken, tok)
	}

	rest := tok[eq+1:]
	slash := -1
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			slash = i
			break
		}
	}
	if slash < 0 {
		return types.MetricReading{}, fmt.Errorf("%w: %q: missing uncertainty", types.ErrMalformedMetricToken, tok)
	}

	mean, err := parseDecimal(rest[:slash])
	if err != nil {
		return types.MetricReading{}, fmt.Errorf("%w: %q: mean: %v", types.ErrMalformedMetricToken, tok, err)
	}
	unc, err := parseDecimal(rest[slash+1:])
	if err != nil {
		return types.MetricReading{}, fmt.Errorf("%w: %q: uncertainty: %v", types.ErrMalformedMetricToken, tok, err)
	}

	return types.MetricReading{Name: name, Mean: mean, Uncertainty: unc}, nil
}

func isMetricName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseDecimal accepts only digits and dots, so signs, exponents, NaN and Inf are rejected.
func parseDecimal(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '.' {
			return 0, fmt.Errorf("invalid character %q in %q", s[i], s)
		}
	}
	return strconv.ParseFloat(s, 64)
}

func parseCount(s string) (int, error) {
	return strconv.Atoi(s)
}
