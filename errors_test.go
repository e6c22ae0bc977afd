package littlefs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashkit/littlefs/lfs"
)

func TestErrFromCode(t *testing.T) {
	r := require.New(t)

	cases := []struct {
		rc  int
		exp error
	}{
		{lfs.ErrIO, ErrIO},
		{lfs.ErrCorrupt, ErrCorrupt},
		{lfs.ErrNoEnt, ErrNoEnt},
		{lfs.ErrExist, ErrExist},
		{lfs.ErrNotDir, ErrNotDir},
		{lfs.ErrIsDir, ErrIsDir},
		{lfs.ErrNotEmpty, ErrNotEmpty},
		{lfs.ErrBadF, ErrBadFd},
		{lfs.ErrFBig, ErrFileTooBig},
		{lfs.ErrInval, ErrInvalid},
		{lfs.ErrNoSpc, ErrNoSpace},
		{lfs.ErrNoMem, ErrNoMem},
	}
	for _, tc := range cases {
		r.ErrorIs(errFromCode(tc.rc), tc.exp)
	}

	// non-negative codes are success, whatever their value
	r.NoError(errFromCode(0))
	r.NoError(errFromCode(1))
	r.NoError(errFromCode(4096))

	// an unlisted negative code is a translator defect and must be loud
	r.EqualError(errFromCode(-99), "littlefs: unrecognized engine status -99")
}

func TestSizeFromCode(t *testing.T) {
	r := require.New(t)

	n, err := sizeFromCode(42)
	r.NoError(err)
	r.Equal(42, n)

	n, err = sizeFromCode(0)
	r.NoError(err)
	r.Equal(0, n)

	n, err = sizeFromCode(lfs.ErrNoSpc)
	r.ErrorIs(err, ErrNoSpace)
	r.Equal(0, n)
}
