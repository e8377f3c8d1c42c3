package compression

import (
	"encoding/base64"
	"fmt"

	"github.com/kxvxnc/terrain-gen/internal/terrain"
)

// CompressedGeometry represents compressed chunk data ready for transmission
type CompressedGeometry struct {
	Format           string `json:"format"`            // "binary_gzip"
	Data             string `json:"data"`              // Base64-encoded compressed data
	Size             int    `json:"size"`              // Compressed size in bytes
	UncompressedSize int    `json:"uncompressed_size"` // Uncompressed size in bytes (for progress tracking)
}

// FormatChunk encodes a chunk and wraps it for JSON transmission.
func FormatChunk(chunk *terrain.Chunk) (*CompressedGeometry, error) {
	compressed, err := EncodeChunk(chunk)
	if err != nil {
		return nil, err
	}

	return &CompressedGeometry{
		Format:           "binary_gzip",
		Data:             base64.StdEncoding.EncodeToString(compressed),
		Size:             len(compressed),
		UncompressedSize: EstimateUncompressedSize(chunk),
	}, nil
}

// ParseChunk reverses FormatChunk.
func ParseChunk(cg *CompressedGeometry) (*terrain.Chunk, error) {
	if cg == nil {
		return nil, fmt.Errorf("compressed geometry is nil")
	}
	if cg.Format != "binary_gzip" {
		return nil, fmt.Errorf("unsupported format %q", cg.Format)
	}

	compressed, err := base64.StdEncoding.DecodeString(cg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return DecodeChunk(compressed)
}

// EstimateUncompressedSize estimates the in-memory size of a chunk's
// geometry: the full strip vertex set at float64 precision plus the lattice,
// with a small allowance for structure overhead.
func EstimateUncompressedSize(chunk *terrain.Chunk) int {
	if chunk == nil {
		return 0
	}

	vertexSize := chunk.VertexCount() * 3 * 8 // 3 float64 components per vertex
	latticeSize := len(chunk.Heights) * 8

	baseSize := vertexSize + latticeSize
	overhead := baseSize / 10

	return baseSize + overhead
}
