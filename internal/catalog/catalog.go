// Package catalog holds the static lists the dashboard offers: winget
// packages, tweaks, dashboard recommendations and pending upgrades. The data
// is embedded CUE, validated against an embedded schema on load.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	krnerrors "github.com/terassyi/krn08/internal/errors"
)

// All selects every category.
const All = "all"

//go:embed schema.cue
var schemaSource []byte

//go:embed catalog.cue
var catalogSource []byte

// Package is an installable winget package.
type Package struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Tweak is a system setting the Tweaks page can apply.
type Tweak struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Risky       bool   `json:"risky,omitempty" yaml:"risky,omitempty"`
	Preselected bool   `json:"preselected,omitempty" yaml:"preselected,omitempty"`
}

// Recommendation is a quick action card on the dashboard.
type Recommendation struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
}

// Group is a named tab of packages or tweaks.
type Group struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

// document mirrors #Catalog in schema.cue.
type document struct {
	Packages []struct {
		Group
		Items []Package `json:"items"`
	} `json:"packages"`
	Tweaks []struct {
		Group
		Items []Tweak `json:"items"`
	} `json:"tweaks"`
	Recommended []Recommendation `json:"recommended"`
	Upgrades    []string         `json:"upgrades"`
	Release     struct {
		Latest string `json:"latest"`
	} `json:"release"`
}

// Catalog is the loaded, indexed catalog. It is read-only after Parse.
type Catalog struct {
	packageGroups []Group
	tweakGroups   []Group
	packages      []Package
	tweaks        []Tweak
	recommended   []Recommendation
	upgrades      []string
	latest        string

	packageIndex map[string]int
	tweakIndex   map[string]int
}

var loadEmbedded = sync.OnceValues(func() (*Catalog, error) {
	return Parse(schemaSource, catalogSource)
})

// Load returns the embedded catalog. The result is parsed once and shared.
func Load() (*Catalog, error) {
	return loadEmbedded()
}

// Parse validates data against schema and builds a Catalog.
func Parse(schema, data []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema, cue.Filename("schema.cue"))
	if err := schemaValue.Err(); err != nil {
		return nil, catalogError("failed to compile catalog schema", err)
	}
	dataValue := ctx.CompileBytes(data, cue.Filename("catalog.cue"))
	if err := dataValue.Err(); err != nil {
		return nil, catalogError("failed to compile catalog", err)
	}

	value := schemaValue.LookupPath(cue.ParsePath("#Catalog")).Unify(dataValue)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, catalogError("catalog does not match schema", err)
	}

	jsonBytes, err := value.MarshalJSON()
	if err != nil {
		return nil, catalogError("failed to marshal catalog", err)
	}

	var doc document
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, catalogError("failed to decode catalog", err)
	}

	return build(&doc)
}

// build flattens the document and indexes ids. Ids must be unique per kind.
func build(doc *document) (*Catalog, error) {
	c := &Catalog{
		recommended:  doc.Recommended,
		upgrades:     doc.Upgrades,
		latest:       doc.Release.Latest,
		packageIndex: make(map[string]int),
		tweakIndex:   make(map[string]int),
	}

	for _, g := range doc.Packages {
		c.packageGroups = append(c.packageGroups, g.Group)
		for _, p := range g.Items {
			if _, dup := c.packageIndex[p.ID]; dup {
				return nil, krnerrors.New(krnerrors.CategoryCatalog, fmt.Sprintf("duplicate package id %q", p.ID)).
					WithCode(krnerrors.CodeCatalogLoad)
			}
			p.Category = g.Name
			c.packageIndex[p.ID] = len(c.packages)
			c.packages = append(c.packages, p)
		}
	}

	for _, g := range doc.Tweaks {
		c.tweakGroups = append(c.tweakGroups, g.Group)
		for _, tw := range g.Items {
			if _, dup := c.tweakIndex[tw.ID]; dup {
				return nil, krnerrors.New(krnerrors.CategoryCatalog, fmt.Sprintf("duplicate tweak id %q", tw.ID)).
					WithCode(krnerrors.CodeCatalogLoad)
			}
			tw.Category = g.Name
			c.tweakIndex[tw.ID] = len(c.tweaks)
			c.tweaks = append(c.tweaks, tw)
		}
	}

	return c, nil
}

// catalogError wraps a CUE error, keeping the first source position.
func catalogError(message string, err error) *krnerrors.Error {
	e := krnerrors.Wrap(krnerrors.CategoryCatalog, message, err).WithCode(krnerrors.CodeCatalogLoad)
	for _, ce := range cueerrors.Errors(err) {
		if pos := ce.Position(); pos.IsValid() {
			e.WithDetail("position", pos.String())
			break
		}
	}
	return e
}

// PackageGroups returns the package tabs in display order.
func (c *Catalog) PackageGroups() []Group {
	return append([]Group(nil), c.packageGroups...)
}

// TweakGroups returns the tweak tabs in display order. Groups that contain
// only risky tweaks are hidden unless expert is set.
func (c *Catalog) TweakGroups(expert bool) []Group {
	var out []Group
	for _, g := range c.tweakGroups {
		if expert || c.hasSafeTweak(g.Name) {
			out = append(out, g)
		}
	}
	return out
}

func (c *Catalog) hasSafeTweak(group string) bool {
	for _, tw := range c.tweaks {
		if tw.Category == group && !tw.Risky {
			return true
		}
	}
	return false
}

// Packages returns the packages of one category, or all of them for All.
func (c *Catalog) Packages(category string) ([]Package, error) {
	if category == All {
		return append([]Package(nil), c.packages...), nil
	}
	if !containsGroup(c.packageGroups, category) {
		return nil, krnerrors.NewUnknownItemError("package category", category)
	}
	var out []Package
	for _, p := range c.packages {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// Tweaks returns the tweaks of one category, or all of them for All.
// Risky tweaks are left out unless expert is set.
func (c *Catalog) Tweaks(category string, expert bool) ([]Tweak, error) {
	if category != All && !containsGroup(c.tweakGroups, category) {
		return nil, krnerrors.NewUnknownItemError("tweak category", category)
	}
	var out []Tweak
	for _, tw := range c.tweaks {
		if category != All && tw.Category != category {
			continue
		}
		if tw.Risky && !expert {
			continue
		}
		out = append(out, tw)
	}
	return out, nil
}

// Package looks up a package by id.
func (c *Catalog) Package(id string) (Package, error) {
	i, ok := c.packageIndex[id]
	if !ok {
		return Package{}, krnerrors.NewUnknownItemError("package", id)
	}
	return c.packages[i], nil
}

// Tweak looks up a tweak by id.
func (c *Catalog) Tweak(id string) (Tweak, error) {
	i, ok := c.tweakIndex[id]
	if !ok {
		return Tweak{}, krnerrors.NewUnknownItemError("tweak", id)
	}
	return c.tweaks[i], nil
}

// Recommendation looks up a dashboard recommendation by id.
func (c *Catalog) Recommendation(id string) (Recommendation, error) {
	for _, r := range c.recommended {
		if r.ID == id {
			return r, nil
		}
	}
	return Recommendation{}, krnerrors.NewUnknownItemError("recommendation", id)
}

// Recommended returns the dashboard recommendations in display order.
func (c *Catalog) Recommended() []Recommendation {
	return append([]Recommendation(nil), c.recommended...)
}

// PreselectedTweaks returns the ids of tweaks selected by default.
func (c *Catalog) PreselectedTweaks() []string {
	var ids []string
	for _, tw := range c.tweaks {
		if tw.Preselected {
			ids = append(ids, tw.ID)
		}
	}
	return ids
}

// Upgrades returns the package names "upgrade all" reports as outdated.
func (c *Catalog) Upgrades() []string {
	return append([]string(nil), c.upgrades...)
}

// LatestRelease returns the newest KRN-08 version known to the release feed.
func (c *Catalog) LatestRelease() string {
	return c.latest
}

func containsGroup(groups []Group, name string) bool {
	for _, g := range groups {
		if g.Name == name {
			return true
		}
	}
	return false
}
