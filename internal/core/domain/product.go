package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Price is a parsed monetary amount with its currency code.
type Price struct {
	// Amount is the numeric price value.
	Amount float64

	// Currency is the ISO-style currency code (e.g. "EUR").
	Currency string
}

// String formats the price for display, e.g. "1234.56 EUR".
func (p Price) String() string {
	return fmt.Sprintf("%g %s", p.Amount, p.Currency)
}

// ProductRecord is the canonical representation of one catalog item.
// All lookups, index entries and mutation targets are keyed by Key.
type ProductRecord struct {
	// Key is the stable unique identifier within the canonical catalog.
	// Derived from a source-provided identifier, or slugified from the name.
	Key string

	// DisplayName is the human-readable product name.
	DisplayName string

	// Article is an optional external SKU or article code.
	Article string

	// Brand is the manufacturer or brand name.
	Brand string

	// Description is the free-text product description.
	Description string

	// Category is the product category string.
	Category string

	// Images is the ordered list of absolute image URLs.
	Images []string

	// Price is the parsed price, nil when unknown or unparseable.
	Price *Price

	// Attributes holds free-form technical specs as label -> value.
	Attributes map[string]string

	// SourceID identifies the registered source that produced this record.
	SourceID string
}

// PrimaryImage returns the first image URL, or empty string when none exist.
func (p *ProductRecord) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DocumentText builds the text representation embedded into the vector index.
// Field order is stable so that re-indexing an unchanged record produces the
// same document text.
func (p *ProductRecord) DocumentText() string {
	var b strings.Builder

	writeLine := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}

	writeLine("Name", p.DisplayName)
	writeLine("Article", p.Article)
	writeLine("Brand", p.Brand)
	writeLine("Category", p.Category)
	writeLine("Description", p.Description)
	if p.Price != nil {
		writeLine("Price", p.Price.String())
	}

	if len(p.Attributes) > 0 {
		labels := make([]string, 0, len(p.Attributes))
		for label := range p.Attributes {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			writeLine(label, p.Attributes[label])
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Metadata returns the denormalised subset of the record stored alongside its
// vector. At minimum it carries the source id so similarity queries can be
// restricted per source without re-joining the canonical catalog.
func (p *ProductRecord) Metadata() map[string]string {
	m := map[string]string{
		"key":       p.Key,
		"source_id": p.SourceID,
	}
	if p.DisplayName != "" {
		m["name"] = p.DisplayName
	}
	if p.Article != "" {
		m["article"] = p.Article
	}
	if p.Brand != "" {
		m["brand"] = p.Brand
	}
	if p.Category != "" {
		m["category"] = p.Category
	}
	return m
}

// VectorEntry builds the vector index entry for this record.
func (p *ProductRecord) VectorEntry() VectorRecord {
	return VectorRecord{
		Key:          p.Key,
		DocumentText: p.DocumentText(),
		Metadata:     p.Metadata(),
	}
}

// VectorRecord is one entry of the vector index.
type VectorRecord struct {
	// Key matches the canonical ProductRecord key.
	Key string

	// DocumentText is the embedded text representation.
	DocumentText string

	// Metadata carries denormalised record fields (at least source_id).
	Metadata map[string]string
}
