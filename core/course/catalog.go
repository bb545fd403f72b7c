package course

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	appfs "github.com/bhavyajain7773/ATF-Design/fs"
)

const catalogFile = "catalog.yaml"

var (
	seed     []Course
	seedErr  error
	seedOnce sync.Once
)

// SeedCatalog returns a fresh copy of the built-in course catalog.
func SeedCatalog() ([]Course, error) {
	seedOnce.Do(func() {
		seed, seedErr = loadCatalog()
	})
	if seedErr != nil {
		return nil, seedErr
	}
	return CloneAll(seed), nil
}

// MustSeedCatalog is like SeedCatalog but panics if the embedded catalog is broken.
func MustSeedCatalog() []Course {
	courses, err := SeedCatalog()
	if err != nil {
		panic(err)
	}
	return courses
}

func loadCatalog() ([]Course, error) {
	data, err := appfs.FS.ReadFile(catalogFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading seed catalog")
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) ([]Course, error) {
	var courses []Course
	if err := yaml.UnmarshalStrict(data, &courses); err != nil {
		return nil, errors.Wrap(err, "parsing seed catalog")
	}

	ids := make(map[string]struct{}, len(courses))
	for i, c := range courses {
		switch {
		case c.ID == "":
			return nil, fmt.Errorf("seed catalog: course #%d has no id", i)
		case !c.Level.Valid():
			return nil, fmt.Errorf("seed catalog: course %q has invalid level %q", c.ID, c.Level)
		case c.Price < 0:
			return nil, fmt.Errorf("seed catalog: course %q has a negative price", c.ID)
		}
		if _, dup := ids[c.ID]; dup {
			return nil, fmt.Errorf("seed catalog: duplicate course id %q", c.ID)
		}
		ids[c.ID] = struct{}{}
	}
	return courses, nil
}
