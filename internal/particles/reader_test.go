package particles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `4 4
0 0.0 0.0 0.0
1 3.0 0.0 0.0

2 -1.5e0 2.25 0.5
3   10  20   30
`

func TestRead(t *testing.T) {
	p, err := Read(strings.NewReader(sample), 0)
	require.NoError(t, err)
	assert.Equal(t, dynamo.Particles{
		{},
		{X: 3},
		{X: -1.5, Y: 2.25, Z: 0.5},
		{X: 10, Y: 20, Z: 30},
	}, p)
}

func TestRead_Local(t *testing.T) {
	p, err := Read(strings.NewReader(sample), 2)
	require.NoError(t, err)
	assert.Equal(t, dynamo.Particles{{}, {X: 3}}, p)
	assert.Equal(t, 2, cap(p))

	_, err = Read(strings.NewReader(sample), 5)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestRead_HeaderOnly(t *testing.T) {
	p, err := Read(strings.NewReader("header line\n"), 0)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestRead_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"too few fields", "h\n0 1 2\n", "line 2"},
		{"bad number", "h\n0 1 2 3\n1 1 x 3\n", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), 0)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "particles.xyz")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	p, err := Load(path, 0)
	require.NoError(t, err)
	assert.Len(t, p, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.xyz"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
