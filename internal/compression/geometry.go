package compression

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
	"github.com/kxvxnc/terrain-gen/internal/terrain"
)

const (
	// Magic number for the lattice grid chunk format
	GeometryMagic = "LGRD"
	// Current format version
	GeometryVersion = 1
	// Gzip compression level (balance between size and speed)
	DefaultGzipLevel = 6
)

// QuantizationY is the height precision in world units (1mm). Only heights
// are transmitted: the X/Z layout of a chunk is fully determined by its
// coordinate, size, and division count, so encoding it would be redundant.
const QuantizationY = 0.001

// GeometryHeader represents the binary format header
type GeometryHeader struct {
	Magic     [4]byte // "LGRD"
	Version   uint8
	Flags     uint8 // reserved
	Divisions uint16
	ChunkX    int32
	ChunkZ    int32
	ChunkSize float64
}

// EncodeChunk serializes a chunk to the compact wire format: header, then
// the (Divisions+1)^2 height lattice quantized to int32 millimeters, gzipped.
// The receiving side rebuilds both strip families from the lattice.
func EncodeChunk(chunk *terrain.Chunk) ([]byte, error) {
	if chunk == nil {
		return nil, fmt.Errorf("chunk is nil")
	}
	side := chunk.Divisions + 1
	if len(chunk.Heights) != side*side {
		return nil, fmt.Errorf("chunk %s has %d heights, expected %d", chunk.Coord, len(chunk.Heights), side*side)
	}

	header := GeometryHeader{
		Version:   GeometryVersion,
		Divisions: uint16(chunk.Divisions),
		ChunkX:    int32(chunk.Coord.CX),
		ChunkZ:    int32(chunk.Coord.CZ),
		ChunkSize: chunk.Size,
	}
	copy(header.Magic[:], GeometryMagic)

	quantized := make([]int32, len(chunk.Heights))
	for i, h := range chunk.Heights {
		quantized[i] = int32(h / QuantizationY)
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, quantized); err != nil {
		return nil, fmt.Errorf("failed to write height lattice: %w", err)
	}

	compressed, err := gzipCompress(buf.Bytes(), DefaultGzipLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to compress chunk: %w", err)
	}
	return compressed, nil
}

// DecodeChunk reverses EncodeChunk and reassembles the full chunk, strips
// included. Heights round-trip within QuantizationY of the originals.
func DecodeChunk(data []byte) (*terrain.Chunk, error) {
	raw, err := gzipDecompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress chunk: %w", err)
	}

	reader := bytes.NewReader(raw)
	var header GeometryHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if string(header.Magic[:]) != GeometryMagic {
		return nil, fmt.Errorf("bad magic %q, expected %q", header.Magic[:], GeometryMagic)
	}
	if header.Version != GeometryVersion {
		return nil, fmt.Errorf("unsupported format version %d", header.Version)
	}
	if header.ChunkSize <= 0 {
		return nil, fmt.Errorf("invalid chunk size %v", header.ChunkSize)
	}

	side := int(header.Divisions) + 1
	quantized := make([]int32, side*side)
	if err := binary.Read(reader, binary.LittleEndian, quantized); err != nil {
		return nil, fmt.Errorf("failed to read height lattice: %w", err)
	}

	heights := make([]float64, len(quantized))
	for i, q := range quantized {
		heights[i] = float64(q) * QuantizationY
	}

	coord := chunkmap.Coord{CX: int(header.ChunkX), CZ: int(header.ChunkZ)}
	return terrain.AssembleChunk(coord, header.ChunkSize, int(header.Divisions), heights), nil
}

// gzipCompress compresses data using gzip
func gzipCompress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write to gzip: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// gzipDecompress expands gzip data
func gzipDecompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read gzip stream: %w", err)
	}
	return raw, nil
}
