package codec

import (
	"testing"
)

type benchParameters struct {
	Cutoff       float64 `json:"cutoff"`
	MaxNeighbors int     `json:"max_neighbors"`
}

func benchmarkCodecUnmarshal(b *testing.B, c Codec, data []byte) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v benchParameters
	b.ResetTimer()
	for b.Loop() {
		if err := UnmarshalStrict(c, data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCodec_UnmarshalStrict_Parameters(b *testing.B) {
	data := []byte(`{"cutoff": 3.5, "max_neighbors": 12}`)

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecUnmarshal(b, JSON{}, data) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecUnmarshal(b, GoJSON{}, data) })
}
