package atus

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CatalogEntry maps one series ID to the named statistic and
// demographic it measures.
type CatalogEntry struct {
	ID          string `yaml:"id"`
	Stat        string `yaml:"stat"`
	Demographic string `yaml:"demographic"`
}

// CatalogGroup is a named set of series synced together.
type CatalogGroup struct {
	Description string         `yaml:"description"`
	Series      []CatalogEntry `yaml:"series"`
}

// Catalog is the full series catalog keyed by group name.
type Catalog struct {
	Groups map[string]CatalogGroup `yaml:"groups"`
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a catalog from the given YAML file, falling back
// to the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "atus: read catalog %s", path)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "atus: parse catalog")
	}

	for name, g := range c.Groups {
		for _, e := range g.Series {
			if _, err := ParseSeriesID(e.ID); err != nil {
				return nil, eris.Wrapf(err, "atus: catalog group %s", name)
			}
		}
	}
	return &c, nil
}

// Group returns a catalog group by name.
func (c *Catalog) Group(name string) (CatalogGroup, error) {
	g, ok := c.Groups[name]
	if !ok {
		return CatalogGroup{}, eris.Errorf("atus: unknown catalog group %q", name)
	}
	return g, nil
}

// IDs returns the series IDs of a group, in catalog order.
func (g CatalogGroup) IDs() []string {
	ids := make([]string, len(g.Series))
	for i, e := range g.Series {
		ids[i] = e.ID
	}
	return ids
}

// Lookup finds the catalog entry for a series ID, searching all groups.
func (c *Catalog) Lookup(id string) (CatalogEntry, bool) {
	for _, g := range c.Groups {
		for _, e := range g.Series {
			if e.ID == id {
				return e, true
			}
		}
	}
	return CatalogEntry{}, false
}
