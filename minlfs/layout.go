package minlfs

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/flashkit/littlefs/lfs"
)

// On-medium layout, all little-endian.
//
// Block 0 holds the superblock followed by the FAT (one uint32 per
// block). Blocks 1..tableBlocks hold the entry table as fixed 272-byte
// records. Data blocks follow.
const (
	magic   = "mlfs"
	version = 1

	superLen = 24 // magic, version, block size, block count, table blocks, crc
	fatOff   = 32

	entrySize = 272

	fatFree     = 0
	fatReserved = 0xFFFFFFFE
	fatEnd      = 0xFFFFFFFF

	// noBlock marks a file without data blocks; it shares the FAT's
	// end-of-chain value, which is never a valid block index.
	noBlock = fatEnd

	// rootIdx is the parent index of top-level entries. The root itself
	// has no table entry.
	rootIdx = 0xFFFFFFFF
)

type entry struct {
	used   bool
	typ    uint8
	size   uint32
	first  uint32
	parent uint32
	name   string
}

func encodeSuper(s *fsState, buf []byte) {
	copy(buf[0:4], magic)
	binary.LittleEndian.PutUint32(buf[4:], version)
	binary.LittleEndian.PutUint32(buf[8:], s.cfg.BlockSize)
	binary.LittleEndian.PutUint32(buf[12:], s.cfg.BlockCount)
	binary.LittleEndian.PutUint32(buf[16:], s.tableBlocks)
	binary.LittleEndian.PutUint32(buf[20:], crc32.ChecksumIEEE(buf[:20]))

	for i, v := range s.fat {
		binary.LittleEndian.PutUint32(buf[fatOff+4*i:], v)
	}
}

// decodeSuper validates block 0 against the mount config and fills in
// the state's layout fields and FAT.
func decodeSuper(s *fsState, buf []byte) int {
	if string(buf[0:4]) != magic {
		return lfs.ErrCorrupt
	}
	if binary.LittleEndian.Uint32(buf[20:]) != crc32.ChecksumIEEE(buf[:20]) {
		return lfs.ErrCorrupt
	}
	if binary.LittleEndian.Uint32(buf[4:]) != version {
		return lfs.ErrInval
	}
	if binary.LittleEndian.Uint32(buf[8:]) != s.cfg.BlockSize ||
		binary.LittleEndian.Uint32(buf[12:]) != s.cfg.BlockCount {
		return lfs.ErrInval
	}

	s.tableBlocks = binary.LittleEndian.Uint32(buf[16:])
	s.dataStart = 1 + s.tableBlocks
	if s.dataStart >= s.cfg.BlockCount {
		return lfs.ErrCorrupt
	}

	s.fat = make([]uint32, s.cfg.BlockCount)
	for i := range s.fat {
		s.fat[i] = binary.LittleEndian.Uint32(buf[fatOff+4*i:])
	}
	return lfs.ErrOK
}

func encodeEntry(e *entry, buf []byte) {
	for i := range buf[:entrySize] {
		buf[i] = 0
	}
	if !e.used {
		return
	}
	buf[0] = 1
	buf[1] = e.typ
	binary.LittleEndian.PutUint32(buf[4:], e.size)
	binary.LittleEndian.PutUint32(buf[8:], e.first)
	binary.LittleEndian.PutUint32(buf[12:], e.parent)
	n := len(e.name)
	if n > lfs.NameMax {
		n = lfs.NameMax
	}
	copy(buf[16:16+n], e.name)
}

func decodeEntry(buf []byte) entry {
	if buf[0] != 1 {
		return entry{}
	}
	e := entry{
		used:   true,
		typ:    buf[1],
		size:   binary.LittleEndian.Uint32(buf[4:]),
		first:  binary.LittleEndian.Uint32(buf[8:]),
		parent: binary.LittleEndian.Uint32(buf[12:]),
	}
	name := buf[16 : 16+lfs.NameMax+1]
	for i, b := range name {
		if b == 0 {
			e.name = string(name[:i])
			return e
		}
	}
	e.name = string(name)
	return e
}

func fillInfo(info *lfs.Info, typ uint8, size uint32, name string) {
	info.Type = typ
	info.Size = size
	for i := range info.Name {
		info.Name[i] = 0
	}
	n := len(name)
	if n > lfs.NameMax {
		n = lfs.NameMax
	}
	copy(info.Name[:n], name)
}
