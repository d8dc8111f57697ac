/*
Package artifact talks to the upstream analysis service. A photograph is
uploaded as a multipart form, the service replies with a ZIP archive and the
first archive entry whose name contains the PFM extension is handed back to
the caller for decoding.
*/
package artifact

import (
	"bytes"
	"io"
	"strings"

	"github.com/bodgit/lumimap/pfm"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

var (
	// ErrArtifactNotFound means the archive held no raster entry.
	ErrArtifactNotFound = errors.New("artifact: no raster entry in archive")
	// ErrFetch wraps any failure talking to the service.
	ErrFetch = errors.New("artifact: fetch failed")
)

// Entry is one decompressed archive member.
type Entry struct {
	Name string
	Data []byte
}

// Select returns the data and name of the first entry whose name contains
// the PFM extension anywhere, not only as a suffix.
func Select(entries []Entry) ([]byte, string, error) {
	for _, e := range entries {
		if strings.Contains(e.Name, pfm.Extension) {
			return e.Data, e.Name, nil
		}
	}
	return nil, "", ErrArtifactNotFound
}

// Unzip decompresses every regular file in the archive, keeping archive
// order.
func Unzip(b []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, errors.Wrap(err, "unable to open archive")
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		data, err := readEntry(f)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read %s", f.Name)
		}

		entries = append(entries, Entry{Name: f.Name, Data: data})
	}

	return entries, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
