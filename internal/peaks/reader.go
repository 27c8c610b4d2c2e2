package peaks

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Read parses a peak list with one "<shift> <intensity>" pair per line.
// Fields may be separated by whitespace or commas; '#' starts a comment.
func Read(r io.Reader) (List, error) {
	sc := bufio.NewScanner(r)
	var out List
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\r'
		})
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want 2", ErrShape, lineNo, len(fields))
		}
		shift, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d shift %q", ErrShape, lineNo, fields[0])
		}
		intensity, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d intensity %q", ErrShape, lineNo, fields[1])
		}
		if !finite(shift) || !finite(intensity) {
			return nil, fmt.Errorf("%w: line %d has a non-finite value", ErrShape, lineNo)
		}
		out = append(out, Peak{Shift: shift, Intensity: intensity})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadFile reads a peak list from path.
func ReadFile(path string) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	list, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}
