package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rascal/export"
	"github.com/hupe1980/rascal/persistence"
)

const waterXYZ = `3
water molecule
O 0 0 0
H 0 0.75545 -0.58895
H 0 -0.75545 -0.58895
`

const waterParams = `{"cutoff":1.5,"max_neighbors":3}`

// run executes the command tree with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setup(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "water.xyz")
	require.NoError(t, os.WriteFile(input, []byte(waterXYZ), 0o600))
	t.Setenv("RASCAL_ARCHIVE_BACKEND", "local")
	t.Setenv("RASCAL_ARCHIVE_DIR", filepath.Join(dir, "archive"))
	t.Setenv("RASCAL_LOG_LEVEL", "error")
	return dir, input
}

func TestCalculatorsCommand(t *testing.T) {
	setup(t)
	out, err := run(t, "calculators")
	require.NoError(t, err)
	assert.Contains(t, out, "sorted_distances\n")
	assert.Contains(t, out, "dummy_calculator\n")
}

func TestComputeSnapshot(t *testing.T) {
	dir, input := setup(t)
	output := filepath.Join(dir, "water.rsc")

	out, err := run(t, "compute", "-c", "sorted_distances", "--params", waterParams, "-o", output, input)
	require.NoError(t, err)
	assert.Contains(t, out, "computed 3 samples x 3 features from 1 systems")

	d, err := persistence.LoadFromFile(output)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Samples().Count())
	assert.Equal(t, []string{"neighbor"}, d.Features().Names())

	h, err := readHeader(output)
	require.NoError(t, err)
	assert.Equal(t, persistence.CompressionZSTD, persistence.Compression(h.Compression))

	out, err = run(t, "inspect", output)
	require.NoError(t, err)
	assert.Contains(t, out, "format:    snapshot")
	assert.Contains(t, out, "compression: zstd")
	assert.Contains(t, out, "samples:   3")
	assert.Contains(t, out, "gradients: 0")
}

func TestComputeExportFormats(t *testing.T) {
	dir, input := setup(t)

	for _, format := range []string{"arrow", "parquet"} {
		t.Run(format, func(t *testing.T) {
			output := filepath.Join(dir, "water."+format)
			_, err := run(t, "compute", "-c", "sorted_distances", "--params", waterParams,
				"--format", format, "-o", output, input)
			require.NoError(t, err)

			d, err := readDescriptor(format, output)
			require.NoError(t, err)
			assert.Equal(t, 3, d.Samples().Count())
			assert.Equal(t, 3, d.Features().Count())

			out, err := run(t, "inspect", output)
			require.NoError(t, err)
			assert.Contains(t, out, "format:    "+format)
			assert.Contains(t, out, "features:  3 [neighbor]")
		})
	}
}

func TestComputeYAMLParams(t *testing.T) {
	dir, input := setup(t)
	paramsFile := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(paramsFile, []byte("cutoff: 1.5\nmax_neighbors: 2\n"), 0o600))

	params, err := readParams("", paramsFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cutoff":1.5,"max_neighbors":2}`, params)

	output := filepath.Join(dir, "water.arrow")
	out, err := run(t, "compute", "-c", "sorted_distances", "--params-file", paramsFile,
		"-f", "arrow", "-o", output, input)
	require.NoError(t, err)
	assert.Contains(t, out, "3 samples x 2 features")

	file, err := os.Open(output)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()
	d, err := export.ReadArrow(file)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Features().Count())
}

func TestArchiveCommands(t *testing.T) {
	dir, input := setup(t)

	out, err := run(t, "compute", "-c", "sorted_distances", "--params", waterParams,
		"--archive", "--label", "run=test", input)
	require.NoError(t, err)

	var id string
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "archived "); ok {
			id = rest
		}
	}
	require.NotEmpty(t, id)

	out, err = run(t, "archive", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "3x3")
	assert.Contains(t, out, "sorted_distances")
	assert.NotContains(t, out, "sorted distances vector")

	output := filepath.Join(dir, "exported.parquet")
	_, err = run(t, "archive", "export", id, "-f", "parquet", "-o", output)
	require.NoError(t, err)
	d, err := readDescriptor("parquet", output)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Samples().Count())

	out, err = run(t, "archive", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted "+id)

	out, err = run(t, "archive", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, id)

	_, err = run(t, "archive", "export", id, "-o", output)
	require.Error(t, err)
}

func TestComputeErrors(t *testing.T) {
	dir, input := setup(t)
	output := filepath.Join(dir, "out.rsc")

	tests := []struct {
		name string
		args []string
	}{
		{"no output", []string{"compute", "-c", "sorted_distances", "--params", waterParams, input}},
		{"no params", []string{"compute", "-c", "sorted_distances", "-o", output, input}},
		{"both params", []string{"compute", "-c", "sorted_distances", "--params", waterParams,
			"--params-file", "x.yaml", "-o", output, input}},
		{"unknown calculator", []string{"compute", "-c", "nope", "--params", "{}", "-o", output, input}},
		{"bad format", []string{"compute", "-c", "sorted_distances", "--params", waterParams,
			"-f", "csv", "-o", output, input}},
		{"missing input", []string{"compute", "-c", "sorted_distances", "--params", waterParams,
			"-o", output, filepath.Join(dir, "missing.xyz")}},
		{"no inputs", []string{"compute", "-c", "sorted_distances", "--params", waterParams, "-o", output}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestInvalidConfigFailsCommands(t *testing.T) {
	setup(t)
	t.Setenv("RASCAL_WORKERS", "0")
	_, err := run(t, "calculators")
	assert.ErrorIs(t, err, ErrInvalidWorkers)
}
