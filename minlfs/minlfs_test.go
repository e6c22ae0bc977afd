package minlfs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkit/littlefs/lfs"
)

// ramMedium drives the engine straight over the callback contract,
// without the adapter in between.
type ramMedium struct {
	buf []byte
}

func testConfig(blockSize, blockCount uint32) (*lfs.Config, *ramMedium) {
	m := &ramMedium{buf: make([]byte, blockSize*blockCount)}
	for i := range m.buf {
		m.buf[i] = 0xFF
	}

	const readSize, progSize, lookahead = 64, 128, 32
	c := &lfs.Config{
		ReadSize:   readSize,
		ProgSize:   progSize,
		BlockSize:  blockSize,
		BlockCount: blockCount,
		Lookahead:  lookahead,

		ReadBuffer:      make([]byte, readSize),
		ProgBuffer:      make([]byte, progSize),
		LookaheadBuffer: make([]byte, lookahead/8),
	}
	c.Read = func(c *lfs.Config, block, off uint32, buf []byte) int {
		copy(buf, m.buf[block*c.BlockSize+off:])
		return lfs.ErrOK
	}
	c.Prog = func(c *lfs.Config, block, off uint32, data []byte) int {
		copy(m.buf[block*c.BlockSize+off:], data)
		return lfs.ErrOK
	}
	c.Erase = func(c *lfs.Config, block uint32) int {
		start := block * c.BlockSize
		for i := start; i < start+c.BlockSize; i++ {
			m.buf[i] = 0xFF
		}
		return lfs.ErrOK
	}
	c.Sync = func(c *lfs.Config) int { return lfs.ErrOK }
	return c, m
}

func path(s string) []byte {
	buf := make([]byte, lfs.NameMax+1)
	copy(buf, s)
	return buf
}

func TestFormatMountRaw(t *testing.T) {
	r := require.New(t)
	eng := New()
	c, _ := testConfig(1024, 16)

	var fs lfs.State
	r.Equal(lfs.ErrOK, eng.Format(&fs, c))
	// format leaves the state unpopulated
	r.Nil(fs.Sys)

	r.Equal(lfs.ErrOK, eng.Mount(&fs, c))
	r.NotNil(fs.Sys)
	r.Equal(lfs.ErrOK, eng.Unmount(&fs))
	r.Nil(fs.Sys)
}

func TestMountRejectsBlankMedium(t *testing.T) {
	eng := New()
	c, _ := testConfig(1024, 16)

	var fs lfs.State
	require.Equal(t, lfs.ErrCorrupt, eng.Mount(&fs, c))
}

func TestMountRejectsCorruptSuperblock(t *testing.T) {
	r := require.New(t)
	eng := New()
	c, m := testConfig(1024, 16)

	var fs lfs.State
	r.Equal(lfs.ErrOK, eng.Format(&fs, c))

	// flip one superblock byte; the CRC must catch it
	m.buf[9] ^= 0x40
	r.Equal(lfs.ErrCorrupt, eng.Mount(&fs, c))
}

func TestMountRejectsGeometryMismatch(t *testing.T) {
	r := require.New(t)
	eng := New()
	c, m := testConfig(1024, 16)

	var fs lfs.State
	r.Equal(lfs.ErrOK, eng.Format(&fs, c))

	c2, m2 := testConfig(1024, 8)
	copy(m2.buf, m.buf)
	r.Equal(lfs.ErrInval, eng.Mount(&fs, c2))
}

func TestEngineRoundTripRaw(t *testing.T) {
	r := require.New(t)
	eng := New()
	c, _ := testConfig(1024, 32)

	var fs lfs.State
	r.Equal(lfs.ErrOK, eng.Format(&fs, c))
	r.Equal(lfs.ErrOK, eng.Mount(&fs, c))

	var f lfs.FileState
	r.Equal(lfs.ErrOK, eng.FileOpen(&fs, &f, path("/a"), lfs.ORdWr|lfs.OCreat))

	payload := []byte("hello world!")
	r.Equal(len(payload), eng.FileWrite(&fs, &f, payload))
	r.Equal(len(payload), eng.FileTell(&fs, &f))

	// seek correctness per the contract: position 6 reads "world!"
	r.Equal(6, eng.FileSeek(&fs, &f, 6, lfs.SeekSet))
	buf := make([]byte, 6)
	r.Equal(6, eng.FileRead(&fs, &f, buf))
	r.Equal([]byte("world!"), buf)

	r.Equal(lfs.ErrOK, eng.FileRewind(&fs, &f))
	r.Equal(0, eng.FileTell(&fs, &f))
	r.Equal(len(payload), eng.FileSize(&fs, &f))

	r.Equal(lfs.ErrOK, eng.FileClose(&fs, &f))
	// the cursor state is consumed by close
	r.Equal(lfs.ErrBadF, eng.FileRead(&fs, &f, buf))

	r.Equal(lfs.ErrOK, eng.Unmount(&fs))
}

func TestEngineAllocExhaustion(t *testing.T) {
	r := require.New(t)
	eng := New()
	c, _ := testConfig(1024, 8)

	var fs lfs.State
	r.Equal(lfs.ErrOK, eng.Format(&fs, c))
	r.Equal(lfs.ErrOK, eng.Mount(&fs, c))

	var f lfs.FileState
	r.Equal(lfs.ErrOK, eng.FileOpen(&fs, &f, path("/fill"), lfs.OWrOnly|lfs.OCreat))

	chunk := make([]byte, 1024)
	rc := 0
	for i := 0; i < 16 && rc >= 0; i++ {
		rc = eng.FileWrite(&fs, &f, chunk)
	}
	r.Equal(lfs.ErrNoSpc, rc)
	r.Equal(lfs.ErrOK, eng.FileClose(&fs, &f))
	r.Equal(lfs.ErrOK, eng.Unmount(&fs))
}

func TestRemoveWhileOpen(t *testing.T) {
	r := require.New(t)
	eng := New()
	c, m := testConfig(1024, 32)

	var fs lfs.State
	r.Equal(lfs.ErrOK, eng.Format(&fs, c))
	r.Equal(lfs.ErrOK, eng.Mount(&fs, c))

	var f lfs.FileState
	r.Equal(lfs.ErrOK, eng.FileOpen(&fs, &f, path("/a"), lfs.ORdWr|lfs.OCreat))

	// the entry must stay put while a handle is live, or the handle
	// would address freed blocks and a reused slot
	r.Equal(lfs.ErrInval, eng.Remove(&fs, path("/a")))

	// the handle keeps working, and writes land in data blocks, not in
	// the superblock
	r.Equal(4, eng.FileWrite(&fs, &f, []byte("data")))
	r.Equal([]byte(magic), m.buf[:4])

	r.Equal(lfs.ErrOK, eng.FileClose(&fs, &f))
	r.Equal(lfs.ErrOK, eng.Remove(&fs, path("/a")))
	r.Equal(lfs.ErrOK, eng.Unmount(&fs))
}

func TestTruncateNeedsWriteAccess(t *testing.T) {
	r := require.New(t)
	eng := New()
	c, _ := testConfig(1024, 16)

	var fs lfs.State
	r.Equal(lfs.ErrOK, eng.Format(&fs, c))
	r.Equal(lfs.ErrOK, eng.Mount(&fs, c))

	var f lfs.FileState
	r.Equal(lfs.ErrOK, eng.FileOpen(&fs, &f, path("/a"), lfs.ORdWr|lfs.OCreat))
	r.Equal(3, eng.FileWrite(&fs, &f, []byte("abc")))
	r.Equal(lfs.ErrOK, eng.FileClose(&fs, &f))

	r.Equal(lfs.ErrInval, eng.FileOpen(&fs, &f, path("/a"), lfs.ORdOnly|lfs.OTrunc))

	// the refused open must not have truncated anything
	r.Equal(lfs.ErrOK, eng.FileOpen(&fs, &f, path("/a"), lfs.ORdOnly))
	r.Equal(3, eng.FileSize(&fs, &f))
	r.Equal(lfs.ErrOK, eng.FileClose(&fs, &f))
	r.Equal(lfs.ErrOK, eng.Unmount(&fs))
}

func TestEngineStatRoot(t *testing.T) {
	r := require.New(t)
	eng := New()
	c, _ := testConfig(1024, 16)

	var fs lfs.State
	r.Equal(lfs.ErrOK, eng.Format(&fs, c))
	r.Equal(lfs.ErrOK, eng.Mount(&fs, c))

	var info lfs.Info
	r.Equal(lfs.ErrOK, eng.Stat(&fs, path("/"), &info))
	r.Equal(uint8(lfs.TypeDir), info.Type)
	r.Equal([]byte("/"), info.Name[:1])

	r.Equal(lfs.ErrOK, eng.Unmount(&fs))
}

func TestOpsWithoutMount(t *testing.T) {
	r := require.New(t)
	eng := New()

	var fs lfs.State
	r.Equal(lfs.ErrInval, eng.Mkdir(&fs, path("/d")))
	r.Equal(lfs.ErrInval, eng.Unmount(&fs))
}
