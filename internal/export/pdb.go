// Package export writes trajectories and snapshots of particle
// configurations: PDB model frames and SVG projections.
package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/san-kum/ljmd/internal/dynamo"
)

// PDB appends one MODEL block per frame to a trajectory file.
type PDB struct {
	path string
	box  float64
}

// NewPDB truncates path and returns a sink that appends frames to it. The
// file is created if it does not exist.
func NewPDB(path string, boxLength float64) (*PDB, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &PDB{path: path, box: boxLength}, nil
}

func (w *PDB) Path() string { return w.path }

// WriteFrame appends the configuration p as model number iteration.
func (w *PDB) WriteFrame(iteration int, p dynamo.Particles) (err error) {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "CRYST1  %.2f  %.2f  %.2f  90.00  90.00  90.00  P  1\n", w.box, w.box, w.box)
	fmt.Fprintf(bw, "MODEL  %d\n", iteration)
	for i, v := range p {
		fmt.Fprintf(bw, "ATOM  %5d  C   0  %10.3f  %10.3f  %10.3f  MRES\n", i+1, v.X, v.Y, v.Z)
	}
	fmt.Fprintf(bw, "TER\nENDMDL\n")
	return bw.Flush()
}
