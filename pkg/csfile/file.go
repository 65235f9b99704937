package csfile

import (
	"os"

	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
)

// Load reads a table from disk.
func Load(path string) (*dataset.Dataset, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only

	r, release, err := newReader(f, CompressionFor(path))
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer release()

	d, err := Read(r)
	if err != nil {
		return nil, errors.WrapParse("npy", path, err)
	}
	return d, nil
}

// Stat reads only the header of a table, which is enough to learn its
// schema and row count.
func Stat(path string) (*Header, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only

	r, release, err := newReader(f, CompressionFor(path))
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer release()

	h, err := ReadHeader(r)
	if err != nil {
		return nil, errors.WrapParse("npy", path, err)
	}
	return h, nil
}

// Save writes a table to disk, replacing any existing file.
func Save(path string, d *dataset.Dataset) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()

	w, err := newWriter(f, CompressionFor(path))
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := Write(w, d); err != nil {
		_ = w.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := w.Close(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("input file", path)
	}
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	return f, nil
}
