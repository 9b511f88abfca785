package mapguess

import "maps"

// Catalog is the read-only set of candidate locations for a session.
// The indices of valid locations are computed once at load time.
type Catalog struct {
	locations []Location
	valid     []int
}

// LoadCatalog copies locations into a new catalog. It fails with a
// *DatasetError when the input is empty or holds no valid location.
func LoadCatalog(locations []Location) (*Catalog, error) {
	if len(locations) == 0 {
		return nil, NewDatasetError("no locations", nil)
	}

	c := &Catalog{
		locations: make([]Location, len(locations)),
	}
	for i, l := range locations {
		l.Tags = maps.Clone(l.Tags)
		c.locations[i] = l
		if l.Valid() {
			c.valid = append(c.valid, i)
		}
	}

	if len(c.valid) == 0 {
		return nil, NewDatasetError("no location has both street and city", nil)
	}
	return c, nil
}

func (c *Catalog) Len() int { return len(c.locations) }

func (c *Catalog) ValidLen() int { return len(c.valid) }

func (c *Catalog) At(i int) Location { return c.locations[i] }

// Valid returns the i-th valid location, 0 <= i < ValidLen().
func (c *Catalog) Valid(i int) Location { return c.locations[c.valid[i]] }
