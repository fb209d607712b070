// Package catalog loads the static reference data assistants query during a
// conversation: FAQ entries, tutoring concepts, the product catalog, and
// recipe ingredient lists. Catalogs are loaded once per process, shared
// read-only across sessions, and never mutated by tools. A missing or
// unreadable file yields an empty catalog, never an error.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/voicedesk/voicedesk/internal/logging"
	"github.com/voicedesk/voicedesk/internal/match"
)

// File names expected under the catalog directory.
const (
	FAQFile      = "faq.json"
	ConceptsFile = "concepts.json"
	ProductsFile = "products.json"
	RecipesFile  = "recipes.json"
)

// FAQEntry is one question/answer pair with search tags.
type FAQEntry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags"`
}

// Concept is one tutoring topic.
type Concept struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Summary        string   `json:"summary"`
	SampleQuestion string   `json:"sample_question"`
	Options        []string `json:"options,omitempty"`
}

// Product is one orderable catalog item.
type Product struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// Catalog bundles all reference data for one process.
type Catalog struct {
	FAQ      []FAQEntry
	Concepts []Concept
	Products []Product
	Recipes  map[string][]string

	log *logging.Logger
}

// Load reads the catalog files under dir. Missing files leave the matching
// collection empty; corrupt files are logged and likewise treated as empty.
func Load(dir string, log *logging.Logger) *Catalog {
	c := &Catalog{Recipes: map[string][]string{}, log: log.Sub("catalog")}
	loadJSON(filepath.Join(dir, FAQFile), &c.FAQ, c.log)
	loadJSON(filepath.Join(dir, ConceptsFile), &c.Concepts, c.log)
	loadJSON(filepath.Join(dir, ProductsFile), &c.Products, c.log)
	loadJSON(filepath.Join(dir, RecipesFile), &c.Recipes, c.log)
	c.log.Debug().
		Int("faq", len(c.FAQ)).
		Int("concepts", len(c.Concepts)).
		Int("products", len(c.Products)).
		Int("recipes", len(c.Recipes)).
		Str("dir", dir).
		Msg("catalog loaded")
	return c
}

func loadJSON(path string, out any, log *logging.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("skipping unreadable catalog file")
	}
}

// SearchFAQ returns the entry best matching the query. Tag hits outweigh
// question hits, which outweigh answer hits; a query with no hits at all
// returns false so the caller can offer a spoken fallback.
func (c *Catalog) SearchFAQ(query string) (FAQEntry, bool) {
	i := match.Best(query, len(c.FAQ), func(i int) []match.Field {
		return []match.Field{
			{Weight: 2, Text: c.FAQ[i].Question},
			{Weight: 1, Text: c.FAQ[i].Answer},
			{Weight: 3, Terms: c.FAQ[i].Tags},
		}
	})
	if i < 0 {
		return FAQEntry{}, false
	}
	return c.FAQ[i], true
}

// DefaultConcept is the canonical fallback topic when the catalog is empty
// or a requested concept does not exist.
var DefaultConcept = Concept{
	ID:             "variables",
	Title:          "Variables",
	Summary:        "Variables store values so you can reuse them later.",
	SampleQuestion: "What is a variable and why is it useful?",
}

// Concept returns the concept with the exact id.
func (c *Catalog) Concept(id string) (Concept, bool) {
	for _, con := range c.Concepts {
		if con.ID == id {
			return con, true
		}
	}
	return Concept{}, false
}

// MatchConcept resolves a spoken topic reference to a concept: first by
// exact id, then by exact title, then by weighted token overlap on title
// and summary. Returns false when nothing matches.
func (c *Catalog) MatchConcept(query string) (Concept, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Concept{}, false
	}
	for _, con := range c.Concepts {
		if con.ID == q {
			return con, true
		}
	}
	for _, con := range c.Concepts {
		if strings.ToLower(strings.TrimSpace(con.Title)) == q {
			return con, true
		}
	}
	i := match.Best(q, len(c.Concepts), func(i int) []match.Field {
		return []match.Field{
			{Weight: 2, Text: c.Concepts[i].Title},
			{Weight: 1, Text: c.Concepts[i].Summary},
		}
	})
	if i < 0 {
		return Concept{}, false
	}
	return c.Concepts[i], true
}

// ConceptOrDefault returns the concept with the given id, the first catalog
// concept when the id is unknown, or DefaultConcept when the catalog holds
// no concepts at all.
func (c *Catalog) ConceptOrDefault(id string) Concept {
	if con, ok := c.Concept(id); ok {
		return con
	}
	if len(c.Concepts) > 0 {
		return c.Concepts[0]
	}
	return DefaultConcept
}

// ConceptIDs lists ids in catalog order.
func (c *Catalog) ConceptIDs() []string {
	ids := make([]string, 0, len(c.Concepts))
	for _, con := range c.Concepts {
		ids = append(ids, con.ID)
	}
	return ids
}

// RandomConcept picks a concept at random, avoiding exclude while another
// candidate exists. An empty catalog yields DefaultConcept.
func (c *Catalog) RandomConcept(exclude string) Concept {
	id := match.PickExcluding(c.ConceptIDs(), exclude)
	if id == "" {
		return DefaultConcept
	}
	return c.ConceptOrDefault(id)
}

// QuizOptions returns the multiple-choice options for a concept, falling
// back to a stock set when the concept declares none.
func (c *Catalog) QuizOptions(conceptID string) []string {
	con := c.ConceptOrDefault(conceptID)
	if len(con.Options) > 0 {
		return con.Options
	}
	switch con.ID {
	case "loops":
		return []string{
			"Option A A way to repeat actions",
			"Option B A single-use constant",
			"Option C A comment for documentation",
		}
	default:
		return []string{
			"Option A A named storage for a value",
			"Option B A function that prints text",
			"Option C A loop that repeats steps",
		}
	}
}

// FindProduct returns the product whose name matches exactly, ignoring
// case and surrounding whitespace.
func (c *Catalog) FindProduct(name string) (Product, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	for _, p := range c.Products {
		if strings.ToLower(strings.TrimSpace(p.Name)) == q {
			return p, true
		}
	}
	return Product{}, false
}

// FilterProducts lists products matching an optional category and an
// optional tag, both case-insensitive. Empty filters match everything.
func (c *Catalog) FilterProducts(category, tag string) []Product {
	cat := strings.ToLower(strings.TrimSpace(category))
	tg := strings.ToLower(strings.TrimSpace(tag))
	var out []Product
	for _, p := range c.Products {
		if cat != "" && strings.ToLower(p.Category) != cat {
			continue
		}
		if tg != "" && !hasTag(p.Tags, tg) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.ToLower(t) == want {
			return true
		}
	}
	return false
}

// Recipe returns the ingredient names for a recipe, matched ignoring case
// and surrounding whitespace.
func (c *Catalog) Recipe(name string) ([]string, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	for rec, items := range c.Recipes {
		if strings.ToLower(strings.TrimSpace(rec)) == q {
			return items, true
		}
	}
	return nil, false
}
