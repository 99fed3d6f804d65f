// Package codec encodes distance matrices into a compact binary export
// format.
//
// Layout (little-endian):
//
//	magic "DMX1" | version u8 | compression u8 | reserved u16 |
//	rows u64 | cols u64 | payloadLen u64 | crc32c u32 | payload
//
// The payload is the row-major float64 data, optionally compressed with LZ4
// or ZSTD. The checksum covers the payload bytes as stored. Data that does
// not shrink by at least 10% is stored uncompressed and the header records
// CompressionNone.
package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/hupe1980/distmat"
)

const (
	magic      = "DMX1"
	version    = 1
	headerSize = 4 + 1 + 1 + 2 + 8 + 8 + 8 + 4
)

var (
	// ErrCorrupt is returned when the input is not a valid export or its
	// checksum does not match.
	ErrCorrupt = errors.New("codec: corrupt matrix data")

	// ErrUnsupported is returned for an unknown version or compression.
	ErrUnsupported = errors.New("codec: unsupported format")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Encode writes m to w using compression c.
func Encode(w io.Writer, m distmat.Matrix, c Compression) error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("codec: encode %dx%d matrix: %w", m.Rows, m.Cols, distmat.ErrInvalidArgument)
	}
	rawLen, ok := rawSize(uint64(m.Rows), uint64(m.Cols))
	if !ok {
		return fmt.Errorf("codec: encode %dx%d matrix: size overflows: %w", m.Rows, m.Cols, distmat.ErrInvalidArgument)
	}
	n := int(rawLen / 8)
	if len(m.Data) < n {
		return fmt.Errorf("codec: encode %dx%d matrix with %d values: %w", m.Rows, m.Cols, len(m.Data), distmat.ErrInvalidArgument)
	}

	raw := make([]byte, 0, n*8)
	for _, v := range m.Data[:n] {
		raw = binary.LittleEndian.AppendUint64(raw, math.Float64bits(v))
	}

	payload, stored, err := compress(raw, c)
	if err != nil {
		return fmt.Errorf("codec: compress %s: %w", c, err)
	}

	var hdr [headerSize]byte
	copy(hdr[0:4], magic)
	hdr[4] = version
	hdr[5] = byte(stored)
	binary.LittleEndian.PutUint64(hdr[8:], uint64(m.Rows))
	binary.LittleEndian.PutUint64(hdr[16:], uint64(m.Cols))
	binary.LittleEndian.PutUint64(hdr[24:], uint64(len(payload)))
	binary.LittleEndian.PutUint32(hdr[32:], crc32.Checksum(payload, castagnoli))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Decode reads a matrix written by Encode.
func Decode(r io.Reader) (distmat.Matrix, error) {
	br := bufio.NewReader(r)

	var hdr [headerSize]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return distmat.Matrix{}, fmt.Errorf("%w: short header", ErrCorrupt)
		}
		return distmat.Matrix{}, err
	}

	if string(hdr[0:4]) != magic {
		return distmat.Matrix{}, fmt.Errorf("%w: bad magic %q", ErrCorrupt, hdr[0:4])
	}
	if hdr[4] != version {
		return distmat.Matrix{}, fmt.Errorf("%w: version %d", ErrUnsupported, hdr[4])
	}

	c := Compression(hdr[5])
	if !c.valid() {
		return distmat.Matrix{}, fmt.Errorf("%w: compression %d", ErrUnsupported, hdr[5])
	}

	rows := binary.LittleEndian.Uint64(hdr[8:])
	cols := binary.LittleEndian.Uint64(hdr[16:])
	payloadLen := binary.LittleEndian.Uint64(hdr[24:])
	sum := binary.LittleEndian.Uint32(hdr[32:])

	rawLen, ok := rawSize(rows, cols)
	if !ok {
		return distmat.Matrix{}, fmt.Errorf("%w: %dx%d matrix too large", ErrCorrupt, rows, cols)
	}
	if payloadLen > maxPayload(rawLen, c) {
		return distmat.Matrix{}, fmt.Errorf("%w: payload of %d bytes for %d raw bytes", ErrCorrupt, payloadLen, rawLen)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(br, payload); err != nil {
		return distmat.Matrix{}, fmt.Errorf("%w: short payload: %w", ErrCorrupt, err)
	}
	if crc32.Checksum(payload, castagnoli) != sum {
		return distmat.Matrix{}, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	raw, err := decompress(payload, c, int(rawLen))
	if err != nil {
		return distmat.Matrix{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	data := make([]float64, len(raw)/8)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}

	return distmat.NewMatrix(int(rows), int(cols), data)
}

func rawSize(rows, cols uint64) (uint64, bool) {
	const maxInt = uint64(math.MaxInt)
	if rows > maxInt || cols > maxInt {
		return 0, false
	}
	if rows == 0 || cols == 0 {
		return 0, true
	}
	n := rows * cols
	if n/cols != rows || n > maxInt/8 {
		return 0, false
	}
	return n * 8, true
}

// maxPayload bounds the stored size so a corrupt header cannot trigger a
// huge allocation before the checksum is checked.
func maxPayload(rawLen uint64, c Compression) uint64 {
	if c == CompressionNone {
		return rawLen
	}
	return rawLen + rawLen/128 + 1024
}
