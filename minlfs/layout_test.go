package minlfs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkit/littlefs/lfs"
)

func TestEntryCodec(t *testing.T) {
	r := require.New(t)

	e := entry{
		used:   true,
		typ:    lfs.TypeReg,
		size:   12345,
		first:  7,
		parent: rootIdx,
		name:   "config.bin",
	}

	buf := make([]byte, entrySize)
	encodeEntry(&e, buf)
	r.Equal(e, decodeEntry(buf))

	// a free slot decodes as unused whatever the old contents were
	encodeEntry(&entry{}, buf)
	r.Equal(entry{}, decodeEntry(buf))
}

func TestEntryCodecLongName(t *testing.T) {
	r := require.New(t)

	e := entry{
		used:   true,
		typ:    lfs.TypeDir,
		first:  noBlock,
		parent: 3,
		name:   strings.Repeat("x", lfs.NameMax),
	}

	buf := make([]byte, entrySize)
	encodeEntry(&e, buf)
	dec := decodeEntry(buf)
	r.Equal(e.name, dec.name)
	r.Equal(byte(0), buf[16+lfs.NameMax])
}

func TestSplitPath(t *testing.T) {
	r := require.New(t)

	cases := []struct {
		in  string
		exp []string
	}{
		{"/", nil},
		{"", nil},
		{"/foo", []string{"foo"}},
		{"foo", []string{"foo"}},
		{"/foo/bar", []string{"foo", "bar"}},
		{"//foo///bar/", []string{"foo", "bar"}},
		{"/foo/./bar", []string{"foo", "bar"}},
		{"/foo/../bar", []string{"bar"}},
		{"/..", nil},
	}
	for _, tc := range cases {
		r.Equal(tc.exp, splitPath(path(tc.in)), "path %q", tc.in)
	}
}

func TestFillInfoTruncates(t *testing.T) {
	r := require.New(t)

	var info lfs.Info
	fillInfo(&info, lfs.TypeReg, 9, strings.Repeat("y", lfs.NameMax+10))
	r.Equal(byte(0), info.Name[lfs.NameMax])
	r.Equal(strings.Repeat("y", lfs.NameMax), string(info.Name[:lfs.NameMax]))
}
