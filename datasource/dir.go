package datasource

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	pieces "badc0de.net/pkg/go-pieces"
)

// Dir is a Source and Sink backed by a single directory holding
// {id}.labels.json and {id}.label_sprites.png pairs.
type Dir struct {
	path string
}

// NewDir returns a Dir for the passed path. A leading ~ is expanded to the
// user's home directory. The directory does not need to exist yet.
func NewDir(path string) (*Dir, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expanding %q", path)
	}
	return &Dir{path: filepath.Clean(expanded)}, nil
}

// Path returns the directory's path.
func (d *Dir) Path() string {
	return d.path
}

// PlaceIDs implements Source.
func (d *Dir) PlaceIDs() ([]string, error) {
	entries, err := ioutil.ReadDir(d.path)
	if err != nil {
		return nil, &pieces.IOError{Op: "read", Key: d.path, Err: err}
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match("*"+labelsSuffix, e.Name()); !ok {
			continue
		}
		id := strings.TrimSuffix(e.Name(), labelsSuffix)
		if !validPlaceID(id) {
			continue
		}
		if _, err := os.Stat(filepath.Join(d.path, SpriteFileName(id))); err != nil {
			glog.V(2).Infof("datasource.Dir(%q): %s has no sprite sheet, skipping", d.path, e.Name())
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	glog.V(2).Infof("datasource.Dir(%q): %d places", d.path, len(ids))
	return ids, nil
}

func (d *Dir) read(placeID, name string) ([]byte, error) {
	if !validPlaceID(placeID) {
		return nil, errors.Wrapf(pieces.ErrNotFound, "invalid place id %q", placeID)
	}
	p := filepath.Join(d.path, name)
	b, err := ioutil.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(pieces.ErrNotFound, "reading %s", p)
	}
	if err != nil {
		return nil, &pieces.IOError{Op: "read", Key: p, Err: err}
	}
	return b, nil
}

// ReadLabels implements Source.
func (d *Dir) ReadLabels(placeID string) ([]byte, error) {
	return d.read(placeID, LabelsFileName(placeID))
}

// ReadSprite implements Source.
func (d *Dir) ReadSprite(placeID string) ([]byte, error) {
	return d.read(placeID, SpriteFileName(placeID))
}

// write replaces the named file atomically, so that concurrent readers see
// either the old or the new content.
func (d *Dir) write(placeID, name string, data []byte) error {
	if !validPlaceID(placeID) {
		return &pieces.IOError{Op: "write", Key: placeID, Err: errors.New("invalid place id")}
	}
	p := filepath.Join(d.path, name)
	if err := os.MkdirAll(d.path, 0755); err != nil {
		return &pieces.IOError{Op: "write", Key: p, Err: err}
	}

	f, err := ioutil.TempFile(d.path, "."+name+".*")
	if err != nil {
		return &pieces.IOError{Op: "write", Key: p, Err: err}
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return &pieces.IOError{Op: "write", Key: p, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &pieces.IOError{Op: "write", Key: p, Err: err}
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return &pieces.IOError{Op: "write", Key: p, Err: err}
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return &pieces.IOError{Op: "write", Key: p, Err: err}
	}
	glog.V(2).Infof("datasource.Dir(%q): wrote %s (%d bytes)", d.path, name, len(data))
	return nil
}

// WriteLabels implements Sink.
func (d *Dir) WriteLabels(placeID string, data []byte) error {
	return d.write(placeID, LabelsFileName(placeID), data)
}

// WriteSprite implements Sink.
func (d *Dir) WriteSprite(placeID string, data []byte) error {
	return d.write(placeID, SpriteFileName(placeID), data)
}
