package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TFMV/cohrank/cache"
	"github.com/TFMV/cohrank/types"
)

// maxLineSize bounds a single input line; metric lines for large artifacts run long.
const maxLineSize = 16 * 1024 * 1024

type Parser struct {
	tokens *cache.TokenCache
}

func NewParser(tokens *cache.TokenCache) *Parser {
	if tokens == nil {
		tokens = cache.NewTokenCache(cache.DefaultSize)
	}
	return &Parser{
		tokens: tokens,
	}
}

// ParseLine turns one whitespace-separated line into an ArtifactRecord.
// Token 0 is the artifact id; every other token is either the class count
// or a NAME=MEAN/UNC metric reading.
func (p *Parser) ParseLine(lineNo int, text string) (types.ArtifactRecord, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return types.ArtifactRecord{}, fmt.Errorf("line %d: %w: %d token(s)", lineNo, types.ErrMalformedRecord, len(fields))
	}

	rec := types.ArtifactRecord{
		ID:       fields[0],
		Line:     lineNo,
		Raw:      text,
		Readings: make([]types.MetricReading, 0, len(fields)-1),
	}

	seenClasses := false
	for _, tok := range fields[1:] {
		if isDigits(tok) {
			if seenClasses {
				return types.ArtifactRecord{}, fmt.Errorf("line %d: %w: second class count %q", lineNo, types.ErrMalformedMetricToken, tok)
			}
			n, err := parseCount(tok)
			if err != nil {
				return types.ArtifactRecord{}, fmt.Errorf("line %d: %w: %q: %v", lineNo, types.ErrMalformedMetricToken, tok, err)
			}
			rec.ClassCount = n
			seenClasses = true
			continue
		}

		reading, err := p.ParseMetric(tok)
		if err != nil {
			return types.ArtifactRecord{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rec.Readings = append(rec.Readings, reading)
	}

	return rec, nil
}

// ParseMetric parses a single NAME=MEAN/UNC token, consulting the token cache first.
func (p *Parser) ParseMetric(tok string) (types.MetricReading, error) {
	if reading, ok := p.tokens.Get(tok); ok {
		return reading, nil
	}
	reading, err := parseMetricToken(tok)
	if err != nil {
		return types.MetricReading{}, err
	}
	p.tokens.Put(tok, reading)
	return reading, nil
}

// ParseReader reads every line of r. Lines that fail to parse are skipped and
// returned as issues; blank lines are skipped silently. Only a read failure
// is returned as an error.
func (p *Parser) ParseReader(source string, r io.Reader) ([]types.ArtifactRecord, []types.LineIssue, error) {
	var records []types.ArtifactRecord
	var issues []types.LineIssue

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		rec, err := p.ParseLine(lineNo, text)
		if err != nil {
			issue := types.LineIssue{Source: source, Line: lineNo, Reason: err.Error()}
			if !errors.Is(err, types.ErrMalformedRecord) {
				issue.ID = strings.Fields(text)[0]
			}
			issues = append(issues, issue)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, types.IOError("read", source, err)
	}

	return records, issues, nil
}
