package technique

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"
)

//go:embed data/techniques.json
var defaultCatalogJSON []byte

// Sort orders accepted by Catalog.List
const (
	SortHealthImpact = "health-impact"
	SortName         = "name"
	SortDifficulty   = "difficulty"
)

// Category is a distinct technique category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Filter narrows and orders a catalog listing
type Filter struct {
	Category   string
	Difficulty string
	Sort       string
}

// Catalog is an immutable ordered snapshot of techniques
type Catalog struct {
	techniques []Technique
	byID       map[string]int
}

type catalogFile struct {
	Techniques []Technique `json:"techniques"`
}

// NewCatalog builds a catalog from techniques in the given order
func NewCatalog(techniques []Technique) (*Catalog, error) {
	c := &Catalog{
		techniques: make([]Technique, 0, len(techniques)),
		byID:       make(map[string]int, len(techniques)),
	}
	for _, t := range techniques {
		if t.ID == "" {
			return nil, fmt.Errorf("technique %q has no id", t.Name)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate technique id %q", t.ID)
		}
		c.byID[t.ID] = len(c.techniques)
		c.techniques = append(c.techniques, t)
	}
	return c, nil
}

// LoadCatalog parses a {"techniques": [...]} document
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse technique catalog: %w", err)
	}
	return NewCatalog(f.Techniques)
}

// DefaultCatalog returns the catalog bundled with the binary
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultCatalogJSON))
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of techniques
func (c *Catalog) Len() int {
	return len(c.techniques)
}

// Get looks a technique up by id
func (c *Catalog) Get(id string) (Technique, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Technique{}, false
	}
	return c.techniques[i], true
}

// All returns every technique in catalog order
func (c *Catalog) All() []Technique {
	return append([]Technique(nil), c.techniques...)
}

// List filters by category and difficulty and sorts the result. The default
// sort is by health impact rank. Unknown sort values keep catalog order.
func (c *Catalog) List(f Filter) []Technique {
	out := make([]Technique, 0, len(c.techniques))
	for _, t := range c.techniques {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Difficulty != "" && string(t.Difficulty) != f.Difficulty {
			continue
		}
		out = append(out, t)
	}

	switch f.Sort {
	case "", SortHealthImpact:
		sortByHealthImpact(out)
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortDifficulty:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Difficulty.Rank() < out[j].Difficulty.Rank()
		})
	}
	return out
}

// Categories returns the distinct categories in first-seen order
func (c *Catalog) Categories() []Category {
	seen := make(map[string]bool)
	var out []Category
	for _, t := range c.techniques {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, Category{ID: t.Category, Name: capitalize(t.Category)})
	}
	return out
}

// Recommend returns up to limit techniques suited to an onboarding goal,
// best health impact first. Unknown goals match every technique.
func (c *Catalog) Recommend(goal string, limit int) []Technique {
	match := goalMatcher(goal)
	out := make([]Technique, 0, len(c.techniques))
	for _, t := range c.techniques {
		if match(t) {
			out = append(out, t)
		}
	}
	sortByHealthImpact(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func goalMatcher(goal string) func(Technique) bool {
	switch goal {
	case "stress-reduction":
		return func(t Technique) bool {
			return t.HasBenefit("stress-relief") || t.HasBenefit("anxiety-reduction")
		}
	case "sleep":
		return func(t Technique) bool {
			return t.HasBenefit("better-sleep") || t.Category == "relaxation"
		}
	case "performance":
		return func(t Technique) bool {
			return t.HasBenefit("focus") || t.HasBenefit("mental-clarity")
		}
	case "energy":
		return func(t Technique) bool {
			return t.HasBenefit("energy-boost") || t.Category == "energizing"
		}
	default:
		return func(Technique) bool { return true }
	}
}

func sortByHealthImpact(ts []Technique) {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[i].HealthImpactRank < ts[j].HealthImpactRank
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Holder publishes the current catalog and lets a reload swap it atomically
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder creates a holder around an initial catalog
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Catalog returns the current snapshot
func (h *Holder) Catalog() *Catalog {
	return h.current.Load()
}

// Swap replaces the current snapshot
func (h *Holder) Swap(c *Catalog) {
	h.current.Store(c)
}
