// Package lfs defines the call-level contract of a littlefs-style
// filesystem engine: its signed status codes, open flags, directory entry
// record, configuration block, and the entry points an engine must
// provide. The adapter in the parent package speaks only this contract;
// engines (a linked C library, or the pure-Go minlfs package) implement
// it without knowing anything about the adapter.
package lfs

// Status codes returned by every engine entry point. Negative values are
// errors, non-negative values are success or a byte count / position.
const (
	ErrOK       = 0
	ErrIO       = -5
	ErrCorrupt  = -84
	ErrNoEnt    = -2
	ErrExist    = -17
	ErrNotDir   = -20
	ErrIsDir    = -21
	ErrNotEmpty = -39
	ErrBadF     = -9
	ErrFBig     = -27
	ErrInval    = -22
	ErrNoSpc    = -28
	ErrNoMem    = -12
)

// NameMax is the maximum length of a path handed to the engine, not
// counting the zero terminator. Name buffers are NameMax+1 bytes.
const NameMax = 255

// Open flags for FileOpen, bit-compatible with the engine's open mode.
const (
	ORdOnly = 0x1
	OWrOnly = 0x2
	ORdWr   = ORdOnly | OWrOnly
	OCreat  = 0x0100
	OExcl   = 0x0200
	OTrunc  = 0x0400
	OAppend = 0x0800
)

// Whence values for FileSeek. They coincide with io.SeekStart,
// io.SeekCurrent and io.SeekEnd.
const (
	SeekSet = 0
	SeekCur = 1
	SeekEnd = 2
)

// Entry types reported in Info.Type.
const (
	TypeReg = 0x11
	TypeDir = 0x22
)

// Info is the engine's directory entry record. The Name buffer is
// zero-terminated and may be reused by the engine on the next call, so
// callers copy it out immediately.
type Info struct {
	Type uint8
	Size uint32
	Name [NameMax + 1]byte
}

// Callback signatures through which the engine reaches the raw medium.
// Offsets are relative to the start of the given block; buf/data are
// exactly the size of the transfer. Each returns a status code.
type (
	ReadFunc  func(c *Config, block, off uint32, buf []byte) int
	ProgFunc  func(c *Config, block, off uint32, data []byte) int
	EraseFunc func(c *Config, block uint32) int
	SyncFunc  func(c *Config) int
)

// Config carries everything the engine needs to drive a medium: the
// opaque context token identifying the owning adapter, the four I/O
// callbacks, the medium geometry, and the three scratch buffers. A Config
// handed to Mount or Format must stay valid (and its buffers must stay
// usable) until the filesystem is unmounted; the engine keeps the pointer.
type Config struct {
	// Context is an opaque token. The engine never interprets it; it only
	// passes the Config (and thus the token) back through the callbacks.
	Context uintptr

	Read  ReadFunc
	Prog  ProgFunc
	Erase EraseFunc
	Sync  SyncFunc

	// Geometry. ReadSize and ProgSize are the units of the read and prog
	// callbacks, BlockSize the erase unit, Lookahead the size in bits of
	// the free-block window.
	ReadSize   uint32
	ProgSize   uint32
	BlockSize  uint32
	BlockCount uint32
	Lookahead  uint32

	// Scratch buffers owned by the adapter: ReadSize, ProgSize and
	// Lookahead/8 bytes respectively.
	ReadBuffer      []byte
	ProgBuffer      []byte
	LookaheadBuffer []byte
}

// State is the engine's per-filesystem state block. The adapter reserves
// it zeroed; only Format and Mount may populate it, and only the engine
// may look inside. Sys is the engine's private storage.
type State struct {
	Sys interface{}
}

// FileState is the engine's per-file cursor state, reserved by the
// adapter and populated by FileOpen.
type FileState struct {
	Sys interface{}
}

// DirState is the engine's per-directory cursor state, reserved by the
// adapter and populated by DirOpen.
type DirState struct {
	Sys interface{}
}

// Engine is the full entry-point set of the filesystem engine. Paths are
// zero-terminated buffers of at most NameMax+1 bytes. Every method
// returns a status code; FileRead, FileWrite, FileSeek, FileTell,
// FileSize, DirTell and DirRead return a meaningful non-negative value on
// success (byte count, position, or entry-produced indicator).
type Engine interface {
	Format(fs *State, c *Config) int
	Mount(fs *State, c *Config) int
	Unmount(fs *State) int

	Remove(fs *State, path []byte) int
	Rename(fs *State, oldpath, newpath []byte) int
	Stat(fs *State, path []byte, info *Info) int
	Mkdir(fs *State, path []byte) int

	FileOpen(fs *State, f *FileState, path []byte, flags int) int
	FileClose(fs *State, f *FileState) int
	FileSync(fs *State, f *FileState) int
	FileRead(fs *State, f *FileState, buf []byte) int
	FileWrite(fs *State, f *FileState, data []byte) int
	FileSeek(fs *State, f *FileState, off int, whence int) int
	FileTruncate(fs *State, f *FileState, size uint32) int
	FileTell(fs *State, f *FileState) int
	FileRewind(fs *State, f *FileState) int
	FileSize(fs *State, f *FileState) int

	DirOpen(fs *State, d *DirState, path []byte) int
	DirClose(fs *State, d *DirState) int
	DirRead(fs *State, d *DirState, info *Info) int
	DirSeek(fs *State, d *DirState, off int) int
	DirTell(fs *State, d *DirState) int
	DirRewind(fs *State, d *DirState) int
}
