// Package printer renders catalog listings for `krn08 catalog`.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	"github.com/terassyi/krn08/internal/catalog"
	krnerrors "github.com/terassyi/krn08/internal/errors"
)

// Listing names.
const (
	ListingPackages    = "packages"
	ListingTweaks      = "tweaks"
	ListingRecommended = "recommended"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// rowFormatter converts a catalog item into table columns.
type rowFormatter[T any] interface {
	// Headers returns the column header names.
	Headers() []string
	// FormatRow converts a single item into column values.
	FormatRow(item T) []string
}

// printTable is the generic table-printing pipeline: header, rows, flush.
func printTable[T any](w io.Writer, items []T, f rowFormatter[T]) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(f.Headers(), "\t"))

	for _, item := range items {
		fmt.Fprintln(tw, strings.Join(f.FormatRow(item), "\t"))
	}

	tw.Flush()
}

// printItems handles the format dispatch for any item type.
func printItems[T any](w io.Writer, items []T, format string, f rowFormatter[T]) error {
	switch format {
	case FormatJSON:
		return printJSON(w, items)
	case FormatYAML:
		return printYAML(w, items)
	default:
		printTable(w, items, f)
		return nil
	}
}

// Run prints one listing of cat. Risky tweaks are included only when expert is set.
func Run(w io.Writer, cat *catalog.Catalog, listing, format string, expert bool) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	switch listing {
	case ListingPackages:
		pkgs, err := cat.Packages(catalog.All)
		if err != nil {
			return err
		}
		return printItems(w, pkgs, format, packageFormatter{})
	case ListingTweaks:
		tweaks, err := cat.Tweaks(catalog.All, expert)
		if err != nil {
			return err
		}
		return printItems(w, tweaks, format, tweakFormatter{})
	case ListingRecommended:
		return printItems(w, cat.Recommended(), format, recommendationFormatter{})
	default:
		return krnerrors.NewUnknownItemError("listing", listing)
	}
}

// ResolveListing resolves aliases to canonical listing names.
func ResolveListing(s string) (string, error) {
	aliases := map[string]string{
		"packages":        ListingPackages,
		"package":         ListingPackages,
		"pkg":             ListingPackages,
		"apps":            ListingPackages,
		"tweaks":          ListingTweaks,
		"tweak":           ListingTweaks,
		"recommended":     ListingRecommended,
		"recommendations": ListingRecommended,
		"rec":             ListingRecommended,
	}

	resolved, ok := aliases[strings.ToLower(s)]
	if !ok {
		return "", krnerrors.NewValidationError("catalog", "listing", "packages, tweaks or recommended", s)
	}
	return resolved, nil
}

func validateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return krnerrors.NewValidationError("catalog", "output", strings.Join(Formats, ", "), format)
}

// Common column header constants.
const (
	colID          = "ID"
	colTitle       = "TITLE"
	colCategory    = "CATEGORY"
	colDescription = "DESCRIPTION"
)

// --- Package ---

type packageFormatter struct{}

func (packageFormatter) Headers() []string {
	return []string{colID, colTitle, colCategory, colDescription}
}

func (packageFormatter) FormatRow(p catalog.Package) []string {
	return []string{p.ID, p.Title, p.Category, p.Description}
}

// --- Tweak ---

type tweakFormatter struct{}

func (tweakFormatter) Headers() []string {
	return []string{colID, colTitle, colCategory, "RISKY", "DEFAULT"}
}

func (tweakFormatter) FormatRow(tw catalog.Tweak) []string {
	return []string{tw.ID, tw.Title, tw.Category, strconv.FormatBool(tw.Risky), formatDefault(tw.Preselected)}
}

// --- Recommendation ---

type recommendationFormatter struct{}

func (recommendationFormatter) Headers() []string {
	return []string{colID, colTitle, colCategory, colDescription}
}

func (recommendationFormatter) FormatRow(r catalog.Recommendation) []string {
	return []string{r.ID, r.Title, r.Category, r.Description}
}

// --- Helpers ---

// formatDefault returns the display string for a preselected flag.
func formatDefault(preselected bool) string {
	if preselected {
		return "selected"
	}
	return "-"
}

// printJSON outputs items as indented JSON.
func printJSON[T any](w io.Writer, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printYAML outputs items as YAML.
func printYAML[T any](w io.Writer, items []T) error {
	data, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}
