//go:build windows

package dbase

import (
	"os"

	"golang.org/x/sys/windows"
)

// statSizePlatform stats an open *os.File's size via windows.GetFileSizeEx,
// mirroring the teacher's Windows-native IO path.
func statSizePlatform(f *os.File) (int64, error) {
	var size int64
	if err := windows.GetFileSizeEx(windows.Handle(f.Fd()), &size); err != nil {
		return 0, wrap("stat size", err)
	}
	return size, nil
}
