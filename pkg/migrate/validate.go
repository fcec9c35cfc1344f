package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

const (
	upMarker   = "-- +goose Up"
	downMarker = "-- +goose Down"
)

// ValidateDir checks one dialect directory on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	_, err := scan(os.DirFS(dir), ".")
	return err
}

// ValidateTree checks both dialect directories under root and that they hold
// the same versions.
func ValidateTree(root string) error {
	if root == "" {
		return fmt.Errorf("dir is required")
	}
	return validatePair(os.DirFS(root), dialects[0], dialects[1])
}

// ValidateEmbedded checks the migrations compiled into the binary for driver.
func ValidateEmbedded(driver string) error {
	_, err := scan(embedded, embeddedDir(driver))
	return err
}

// ValidateEmbeddedParity checks that both embedded dialect trees carry the
// same migration files.
func ValidateEmbeddedParity() error {
	return validatePair(embedded, embeddedDir(dialects[0]), embeddedDir(dialects[1]))
}

func validatePair(fsys fs.FS, leftDir, rightDir string) error {
	left, errL := scan(fsys, leftDir)
	right, errR := scan(fsys, rightDir)
	if err := multierr.Combine(errL, errR); err != nil {
		return err
	}
	if !slices.Equal(left, right) {
		return fmt.Errorf("migration trees differ: %s has %v, %s has %v", leftDir, left, rightDir, right)
	}
	return nil
}

// scan returns the sorted migration filenames under dir, collecting every
// naming, duplicate-version and marker problem rather than stopping at the
// first.
func scan(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	var (
		names []string
		errs  error
	)
	versions := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if prev, ok := versions[m[1]]; ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name))
			continue
		}
		versions[m[1]] = name
		names = append(names, name)

		body, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read file %q: %w", name, err))
			continue
		}
		errs = multierr.Append(errs, checkMarkers(name, string(body)))
	}

	slices.Sort(names)
	return names, errs
}

func checkMarkers(name, body string) error {
	up := strings.Index(body, upMarker)
	down := strings.Index(body, downMarker)
	switch {
	case up < 0:
		return fmt.Errorf("migration %q missing %q", name, upMarker)
	case down < 0:
		return fmt.Errorf("migration %q missing %q", name, downMarker)
	case down < up:
		return fmt.Errorf("migration %q has %q before %q", name, downMarker, upMarker)
	}
	return nil
}
