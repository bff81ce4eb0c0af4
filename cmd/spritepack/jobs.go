package main

import (
	"context"
	"io/ioutil"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"badc0de.net/pkg/go-pieces/datasource"
	"badc0de.net/pkg/go-pieces/packer"
)

// job is one entry of a job file:
//
//	jobs:
//	- in: ~/maps/precomputed
//	  out: ~/maps/packed
//	  ids: [edinburgh, budapest]
//	  has_background: true
//	  padding: 1
type job struct {
	In            string   `yaml:"in"`
	Out           string   `yaml:"out"`
	IDs           []string `yaml:"ids,omitempty"`
	HasBackground *bool    `yaml:"has_background,omitempty"`
	Padding       int      `yaml:"padding,omitempty"`
}

type jobFile struct {
	Parallelism int   `yaml:"parallelism,omitempty"`
	Jobs        []job `yaml:"jobs"`
}

func parseJobs(b []byte) (*jobFile, error) {
	var f jobFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, errors.Wrap(err, "parsing job file")
	}
	for i, j := range f.Jobs {
		if j.In == "" || j.Out == "" {
			return nil, errors.Errorf("job %d: both in and out are required", i)
		}
		if j.Padding < 0 {
			return nil, errors.Errorf("job %d: negative padding %d", i, j.Padding)
		}
	}
	return &f, nil
}

func loadJobs(path string) (*jobFile, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading job file")
	}
	return parseJobs(b)
}

func (j job) hasBackground() bool {
	if j.HasBackground == nil {
		return true
	}
	return *j.HasBackground
}

// packDirs packs ids from the in directory into the out directory. With no
// ids, every place in the in directory is packed.
func packDirs(ctx context.Context, j job, parallelism int) ([]string, error) {
	src, err := datasource.NewDir(j.In)
	if err != nil {
		return nil, err
	}
	dst, err := datasource.NewDir(j.Out)
	if err != nil {
		return nil, err
	}
	ids := j.IDs
	if len(ids) == 0 {
		if ids, err = src.PlaceIDs(); err != nil {
			return nil, errors.Wrapf(err, "listing %s", src.Path())
		}
	}
	glog.Infof("packing %d places from %s into %s", len(ids), src.Path(), dst.Path())
	p := packer.New(src, dst, packer.WithSourceBackground(j.hasBackground()), packer.WithPadding(j.Padding))
	if err := p.PackAll(ctx, ids, parallelism); err != nil {
		return nil, err
	}
	return ids, nil
}

func runJobs(ctx context.Context, f *jobFile) error {
	for i, j := range f.Jobs {
		ids, err := packDirs(ctx, j, f.Parallelism)
		if err != nil {
			return errors.Wrapf(err, "job %d", i)
		}
		glog.Infof("job %d: packed %d places", i, len(ids))
	}
	return nil
}

// verifyDirs checks every id packed into the out directory against the in
// directory, and returns the ids that did not match.
func verifyDirs(j job) ([]string, error) {
	src, err := datasource.NewDir(j.In)
	if err != nil {
		return nil, err
	}
	dst, err := datasource.NewDir(j.Out)
	if err != nil {
		return nil, err
	}
	ids := j.IDs
	if len(ids) == 0 {
		if ids, err = dst.PlaceIDs(); err != nil {
			return nil, errors.Wrapf(err, "listing %s", dst.Path())
		}
	}
	var bad []string
	for _, id := range ids {
		err := packer.Verify(src, j.hasBackground(), dst, id)
		var mm *packer.MismatchError
		switch {
		case err == nil:
			glog.V(1).Infof("%s: ok", id)
		case errors.As(err, &mm):
			glog.Warning(err)
			bad = append(bad, id)
		default:
			return bad, err
		}
	}
	return bad, nil
}
