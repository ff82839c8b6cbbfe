package checkpointer

import (
	"fmt"
	"time"
)

// timeLayout sorts lexically in chronological order
const timeLayout = "20060102T150405.000000000"

// fileEnumerator enumerates filenames
type fileEnumerator struct {
	i         int
	name      string
	extension string
}

// filename returns the name of the next consecutive enumerated file
func (f *fileEnumerator) filename() string {
	f.i++
	return fmt.Sprintf("%v%v%v", f.name, f.i, f.extension)
}

// FilenameEnumerator returns a function which will return filenames
// with a counter integer suffix. Each time the returned function is
// called, the filename counter suffix will be one higher than on the
// previous call, so that the first filename has suffix start+1. The
// filename parameter is the full filename with its path, while the
// extension parameter determines the file extension.
func FilenameEnumerator(start int, filename, extension string) func() string {
	enum := fileEnumerator{i: start, name: filename, extension: extension}

	return enum.filename
}

// FileTimer returns a function which will append the current UTC time
// to a filename
func FileTimer(filename, extension string) func() string {
	return func() string {
		now := time.Now().UTC().Format(timeLayout)
		return fmt.Sprintf("%v-%v%v", filename, now, extension)
	}
}
