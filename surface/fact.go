package surface

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// ParseFactLine parses one space-separated "subject predicate object" line
// (spec §6's N-Triples-like fact surface, grounded on
// original_source/src/bin.rs's load3ple) into a 3-column Row of interned
// string-symbol values. Leading/trailing whitespace is trimmed; blank lines
// and lines starting with '#' are treated as comments by ScanFacts below,
// not by this function, which always expects exactly three fields.
func ParseFactLine(in intern.Interner, line string) (value.Row, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, fmt.Errorf("surface: fact line must have exactly 3 fields, got %d: %q", len(fields), line)
	}
	row := make(value.Row, 3)
	for i, f := range fields {
		row[i] = value.FromSymbol(in.Intern(f))
	}
	return row, nil
}

// FormatFactLine renders row (a 3-column row of symbol values) back to its
// space-separated surface form.
func FormatFactLine(in intern.Interner, row value.Row) (string, error) {
	if len(row) != 3 {
		return "", fmt.Errorf("surface: fact row must have arity 3, got %d", len(row))
	}
	parts := make([]string, 3)
	for i, v := range row {
		sym, ok := v.AsSymbol()
		if !ok {
			return "", fmt.Errorf("surface: fact row column %d is not a symbol value", i)
		}
		name, ok := in.Resolve(sym)
		if !ok {
			return "", fmt.Errorf("surface: fact row column %d references an unresolvable symbol", i)
		}
		parts[i] = name
	}
	return strings.Join(parts, " "), nil
}

// ScanFacts reads every non-blank, non-comment line of r as a fact-surface
// triple, in order. A malformed line aborts the scan and returns its error
// together with the rows parsed so far, so the CLI collaborator can report
// the offending line number (spec §6: "the CLI owns... the exit-code
// convention").
func ScanFacts(in intern.Interner, r io.Reader) ([]value.Row, error) {
	scanner := bufio.NewScanner(r)
	var out []value.Row
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := ParseFactLine(in, line)
		if err != nil {
			return out, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, row)
	}
	if err := scanner.Err(); err != nil {
		return out, err
	}
	return out, nil
}
