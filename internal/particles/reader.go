// Package particles reads initial particle configurations from text files.
//
// The first line of a file is a header and is ignored. Every following
// non-blank line holds one particle as "index x y z"; the index column is
// not interpreted.
package particles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/ljmd/internal/dynamo"
)

// ErrMalformed indicates a particle line that does not parse.
var ErrMalformed = errors.New("particles: malformed line")

// Read parses a configuration from r. A positive local keeps only the first
// local particles and must not exceed the number of records.
func Read(r io.Reader, local int) (dynamo.Particles, error) {
	sc := bufio.NewScanner(r)
	p := make(dynamo.Particles, 0, 1024)

	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}

		tokens := strings.Fields(sc.Text())
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) < 4 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want 4", ErrMalformed, line, len(tokens))
		}

		var xyz [3]float64
		for k := range xyz {
			v, err := strconv.ParseFloat(tokens[k+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q is not a number", ErrMalformed, line, tokens[k+1])
			}
			xyz[k] = v
		}
		p = append(p, dynamo.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if local > 0 {
		if local > len(p) {
			return nil, fmt.Errorf("%w: local count %d exceeds %d particles in file",
				dynamo.ErrParameterBounds, local, len(p))
		}
		p = p[:local:local]
	}
	return p, nil
}

// Load opens path and reads it with Read.
func Load(path string, local int) (dynamo.Particles, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Read(f, local)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
