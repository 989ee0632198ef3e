package persistence

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/testutil"
)

func sampleDescriptor(t *testing.T, gradients bool) *descriptor.Descriptor {
	t.Helper()
	systems := testutil.Systems("water", "methane")
	env := descriptor.NewAtomEnvironment(1.5)
	samples := env.Indexes(systems)

	fb := descriptor.NewIndexesBuilder("n", "l")
	fb.AddInts(0, 0)
	fb.Add(descriptor.Float(0.5), descriptor.Uint(1<<40))
	features := fb.Finish()

	d := descriptor.New()
	if gradients {
		grads, err := env.GradientsFor(systems, samples)
		require.NoError(t, err)
		d.PrepareGradients(samples, grads, features)
		for i, v := range d.Gradients().Data() {
			d.Gradients().Data()[i] = v + float64(i)*0.25
		}
	} else {
		d.Prepare(samples, features)
	}
	for i := range d.Values().Data() {
		d.Values().Data()[i] = float64(i) * 1.5
	}
	return d
}

func assertSameDescriptor(t *testing.T, want, got *descriptor.Descriptor) {
	t.Helper()
	assert.True(t, want.Samples().Equal(got.Samples()))
	assert.True(t, want.Features().Equal(got.Features()))
	assert.True(t, want.Values().Equal(got.Values()))
	require.Equal(t, want.HasGradients(), got.HasGradients())
	if want.HasGradients() {
		assert.True(t, want.GradientSamples().Equal(got.GradientSamples()))
		assert.True(t, want.Gradients().Equal(got.Gradients()))
	}
	// tags survive the round trip
	assert.True(t, got.Features().At(1)[0].IsFloat())
	assert.False(t, got.Features().At(1)[1].IsFloat())
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for _, gradients := range []bool{false, true} {
			t.Run(c.String(), func(t *testing.T) {
				d := sampleDescriptor(t, gradients)
				data, err := Marshal(d, WithCompression(c))
				require.NoError(t, err)

				header, err := ReadHeader(bytes.NewReader(data))
				require.NoError(t, err)
				assert.Equal(t, gradients, header.HasGradients())

				got, err := Unmarshal(data)
				require.NoError(t, err)
				assertSameDescriptor(t, d, got)
			})
		}
	}
}

func TestEmptyDescriptor(t *testing.T) {
	data, err := Marshal(descriptor.New())
	require.NoError(t, err)
	assert.Len(t, data, HeaderSize+binaryEmptyBodySize())

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Values().Rows())
}

// names count + row count for two index sets, rows + cols for the matrix
func binaryEmptyBodySize() int { return 2*(4+8) + 16 }

func TestCorruption(t *testing.T) {
	d := sampleDescriptor(t, true)
	data, err := Marshal(d)
	require.NoError(t, err)

	t.Run("Magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[0] ^= 0xFF
		_, err := Unmarshal(bad)
		require.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("Version", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[4] ^= 0xFF
		_, err := Unmarshal(bad)
		require.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("Checksum", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[len(bad)-1] ^= 0xFF
		_, err := Unmarshal(bad)
		require.Error(t, err)
		assert.True(t, IsChecksumMismatch(err))
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Unmarshal(data[:len(data)-10])
		require.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Compression", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[8] = 9
		_, err := Unmarshal(bad)
		require.ErrorIs(t, err, ErrInvalidCompression)
	})
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "water.rsc")
	d := sampleDescriptor(t, false)

	require.NoError(t, SaveToFile(path, d, WithCompression(CompressionLZ4)))
	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assertSameDescriptor(t, d, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file is left behind")

	_, err = LoadFromFile(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, CompressionZSTD, c)

	c, err = ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	_, err = ParseCompression("brotli")
	require.ErrorIs(t, err, ErrInvalidCompression)
	assert.Equal(t, "compression(7)", Compression(7).String())
}
