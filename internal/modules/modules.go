// Package modules locates and loads the YAML module descriptors of a RIOT
// source tree.
package modules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

var (
	// DefaultDirs are the top level directories holding modules
	DefaultDirs = []string{"boards", "core", "cpu", "drivers", "pkg", "sys"}

	// DefaultSkip are directory names never descended into by Merge
	DefaultSkip = []string{"include"}
)

// prefix match only, "foo.yml.orig" still names module "foo"
var descriptorPattern = regexp.MustCompile(`^(.+)\.yml`)

// Scan walks base/<dir> for every dir and maps each module name to the path
// of its descriptor. A module found later replaces an earlier one with the
// same name. Missing directories are skipped.
func Scan(base string, dirs []string) (map[string]string, error) {
	if dirs == nil {
		dirs = DefaultDirs
	}

	found := make(map[string]string)
	for _, dir := range dirs {
		root := filepath.Join(base, dir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root && errors.Is(err, fs.ErrNotExist) {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			if m := descriptorPattern.FindStringSubmatch(d.Name()); m != nil {
				found[m[1]] = path
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	}
	return found, nil
}

// Registry is the union of all loaded descriptors, keyed by the top level
// keys of the descriptor files.
type Registry map[string]any

// Load decodes a single descriptor file into the registry. Keys already
// present are replaced.
func (r Registry) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading descriptor: %w", err)
	}

	var module map[string]any
	if err = yaml.Unmarshal(data, &module); err != nil {
		return fmt.Errorf("decoding descriptor %s: %w", path, err)
	}

	for k, v := range module {
		r[k] = v
	}
	return nil
}

// Merge loads every descriptor below base into a new registry, skipping
// directories named in skip (DefaultSkip if nil).
func Merge(base string, skip []string) (Registry, error) {
	if skip == nil {
		skip = DefaultSkip
	}

	reg := make(Registry)
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != base && contains(skip, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if descriptorPattern.MatchString(d.Name()) {
			return reg.Load(path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
