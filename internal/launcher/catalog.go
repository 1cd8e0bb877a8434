// Package launcher opens local applications and web pages.
package launcher

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Catalog maps an app key to the launch targets tried for it, in order.
// It is read-only after construction.
type Catalog struct {
	apps map[string][]string
}

// NewCatalog normalizes keys (lower-case, trimmed) and expands environment
// references in candidates. Duplicate keys after normalization, keys
// without candidates and keys wrapped in ".,!?" are rejected; utterances
// lose that punctuation, so such keys could never match.
func NewCatalog(apps map[string][]string) (*Catalog, error) {
	c := &Catalog{apps: make(map[string][]string, len(apps))}

	for raw, candidates := range apps {
		key := strings.ToLower(strings.TrimSpace(raw))
		if key == "" {
			return nil, fmt.Errorf("app catalog: empty key %q", raw)
		}
		if strings.Trim(key, ".,!?") != key {
			return nil, fmt.Errorf("app catalog: key %q can never match, drop the punctuation", key)
		}
		if _, dup := c.apps[key]; dup {
			return nil, fmt.Errorf("app catalog: duplicate key %q", key)
		}

		var list []string
		for _, cand := range candidates {
			cand = strings.TrimSpace(os.ExpandEnv(cand))
			if cand != "" {
				list = append(list, cand)
			}
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("app catalog: %q has no launch targets", key)
		}

		c.apps[key] = list
	}

	return c, nil
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.apps[key]
	return ok
}

// Candidates returns a copy of the launch targets for key.
func (c *Catalog) Candidates(key string) ([]string, bool) {
	list, ok := c.apps[key]
	if !ok {
		return nil, false
	}
	return append([]string(nil), list...), true
}

func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.apps))
	for k := range c.apps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Catalog) Len() int { return len(c.apps) }
