package fetcher

import (
	"archive/zip"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// ZIPMembers lists the non-directory member names of a ZIP archive.
func ZIPMembers(zipPath string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

// OpenZIPMember opens a single member of a ZIP archive for streaming. The
// returned closer releases both the member and the archive.
func OpenZIPMember(zipPath, name string) (io.ReadCloser, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}

	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				r.Close() //nolint:errcheck
				return nil, eris.Wrapf(err, "zip: open member %s", name)
			}
			return &zipMemberReader{rc: rc, archive: r}, nil
		}
	}

	r.Close() //nolint:errcheck
	return nil, eris.Errorf("zip: member %q not found", name)
}

// CSVLikeMembers filters member names to .csv/.txt entries, the shapes the
// Receita archives carry.
func CSVLikeMembers(names []string) []string {
	var out []string
	for _, n := range names {
		lower := strings.ToLower(n)
		if strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".txt") {
			out = append(out, n)
		}
	}
	return out
}

type zipMemberReader struct {
	rc      io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipMemberReader) Read(p []byte) (int, error) { return z.rc.Read(p) }

func (z *zipMemberReader) Close() error {
	err := z.rc.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}
