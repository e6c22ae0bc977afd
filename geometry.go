package littlefs

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Geometry describes the medium and the engine's buffering: the units of
// the read and prog callbacks, the erase block size, the number of
// blocks, and the size in bits of the free-block lookahead window. It is
// fixed when the FS is constructed and never changes afterwards.
type Geometry struct {
	ReadSize   uint32 `yaml:"read_size"`
	ProgSize   uint32 `yaml:"prog_size"`
	BlockSize  uint32 `yaml:"block_size"`
	BlockCount uint32 `yaml:"block_count"`
	Lookahead  uint32 `yaml:"lookahead"`
}

// DefaultGeometry returns the geometry of a small 128 KiB flash part:
// 32 blocks of 4 KiB, 256-byte reads, 512-byte programs, a 64-bit
// lookahead window.
func DefaultGeometry() Geometry {
	return Geometry{
		ReadSize:   256,
		ProgSize:   512,
		BlockSize:  4096,
		BlockCount: 32,
		Lookahead:  64,
	}
}

// Size returns the total size of the medium in bytes.
func (g Geometry) Size() int64 {
	return int64(g.BlockSize) * int64(g.BlockCount)
}

// Validate checks the geometry against the engine's alignment
// requirements.
func (g Geometry) Validate() error {
	if err := validation.ValidateStruct(&g,
		validation.Field(&g.ReadSize, validation.Required),
		validation.Field(&g.ProgSize, validation.Required),
		validation.Field(&g.BlockSize, validation.Required),
		validation.Field(&g.BlockCount, validation.Required),
		validation.Field(&g.Lookahead, validation.Required),
	); err != nil {
		return err
	}
	if g.ReadSize > g.BlockSize {
		return fmt.Errorf("geometry: read_size %d exceeds block_size %d", g.ReadSize, g.BlockSize)
	}
	if g.ProgSize > g.BlockSize {
		return fmt.Errorf("geometry: prog_size %d exceeds block_size %d", g.ProgSize, g.BlockSize)
	}
	if g.BlockSize%g.ProgSize != 0 {
		return fmt.Errorf("geometry: block_size %d not a multiple of prog_size %d", g.BlockSize, g.ProgSize)
	}
	if g.BlockSize%g.ReadSize != 0 {
		return fmt.Errorf("geometry: block_size %d not a multiple of read_size %d", g.BlockSize, g.ReadSize)
	}
	if g.Lookahead%8 != 0 {
		return fmt.Errorf("geometry: lookahead %d not a multiple of 8", g.Lookahead)
	}
	return nil
}
