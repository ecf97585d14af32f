package domain

import (
	"strings"
	"unicode"
)

// RawProduct is one loosely-typed product object as found in a source file.
// Field names and shapes vary per source; normalisation reconciles them.
type RawProduct map[string]any

// Field keys consulted during normalisation. Sources disagree on naming, so
// each logical field has an alias list checked in order.
var (
	keyAliases         = []string{"slug", "id", "key"}
	nameAliases        = []string{"name", "title", "display_name"}
	articleAliases     = []string{"article", "sku", "code"}
	brandAliases       = []string{"brand", "manufacturer"}
	descriptionAliases = []string{"description", "desc"}
	categoryAliases    = []string{"category", "type"}
	imagesAliases      = []string{"images", "image_urls"}
	primaryImgAliases  = []string{"main_image", "image", "primary_image"}
	priceAliases       = []string{"price"}
	currencyAliases    = []string{"currency"}
	attributesAliases  = []string{"attributes", "parameters", "params", "specs"}
)

// Attribute labels that may carry a free-text price when the structured
// price field is absent.
var priceAttributeLabels = []string{"price", "цена"}

// StringField returns the first non-empty string value among the given keys.
func (r RawProduct) StringField(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// Key derives the stable record key: an explicit identifier field when
// present, otherwise the slugified display name. Empty when neither exists.
func (r RawProduct) Key() string {
	if key := r.StringField(keyAliases...); key != "" {
		return key
	}
	if name := r.StringField(nameAliases...); name != "" {
		return Slugify(name)
	}
	return ""
}

// Normalise maps the raw record onto the canonical ProductRecord shape.
// Returns nil when the record has no derivable key.
func (r RawProduct) Normalise(sourceID, defaultCurrency string) *ProductRecord {
	key := r.Key()
	if key == "" {
		return nil
	}

	p := &ProductRecord{
		Key:         key,
		DisplayName: r.StringField(nameAliases...),
		Article:     r.StringField(articleAliases...),
		Brand:       r.StringField(brandAliases...),
		Description: r.StringField(descriptionAliases...),
		Category:    r.StringField(categoryAliases...),
		Images:      r.images(),
		Attributes:  r.attributes(),
		SourceID:    sourceID,
	}

	// A record identified only by article still needs a display name.
	if p.DisplayName == "" {
		p.DisplayName = key
	}

	p.Price = r.price(p.Attributes, defaultCurrency)

	return p
}

// images reconciles the image fields: a primary image is prepended to the
// list when missing from it, and a lone primary image becomes a
// single-element list.
func (r RawProduct) images() []string {
	var images []string
	for _, k := range imagesAliases {
		v, ok := r[k]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case []any:
			for _, item := range val {
				if s, ok := item.(string); ok && s != "" {
					images = append(images, s)
				}
			}
		case string:
			if val != "" {
				images = append(images, val)
			}
		}
		if len(images) > 0 {
			break
		}
	}

	if primary := r.StringField(primaryImgAliases...); primary != "" {
		for _, img := range images {
			if img == primary {
				return images
			}
		}
		images = append([]string{primary}, images...)
	}

	return images
}

// price resolves the structured price field, falling back to free-text
// extraction from a price attribute.
func (r RawProduct) price(attributes map[string]string, defaultCurrency string) *Price {
	currency := r.StringField(currencyAliases...)
	if currency == "" {
		currency = defaultCurrency
	}

	for _, k := range priceAliases {
		v, ok := r[k]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case float64:
			return &Price{Amount: val, Currency: currency}
		case int:
			return &Price{Amount: float64(val), Currency: currency}
		case string:
			if p, ok := ParsePrice(val, currency); ok {
				return p
			}
		case map[string]any:
			// Nested price object: {"amount": 12.5, "currency": "EUR"}
			if amount, ok := val["amount"].(float64); ok {
				c := currency
				if s, ok := val["currency"].(string); ok && s != "" {
					c = s
				}
				return &Price{Amount: amount, Currency: c}
			}
		}
	}

	for label, value := range attributes {
		for _, want := range priceAttributeLabels {
			if strings.EqualFold(label, want) {
				if p, ok := ParsePrice(value, defaultCurrency); ok {
					return p
				}
			}
		}
	}

	return nil
}

// attributes flattens the attribute map to string values, dropping nested
// structures unknown to normalisation.
func (r RawProduct) attributes() map[string]string {
	for _, k := range attributesAliases {
		v, ok := r[k]
		if !ok {
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		attrs := make(map[string]string, len(m))
		for label, value := range m {
			if s, ok := value.(string); ok {
				attrs[label] = s
			}
		}
		if len(attrs) > 0 {
			return attrs
		}
	}
	return nil
}

// SetPrice replaces the raw price fields with a structured amount and
// currency, clearing any alias fields that could shadow them on the next
// normalisation pass.
func (r RawProduct) SetPrice(p Price) {
	for _, k := range priceAliases {
		delete(r, k)
	}
	for _, k := range currencyAliases {
		delete(r, k)
	}
	r["price"] = p.Amount
	r["currency"] = p.Currency
}

// SetImages replaces all raw image fields with the given list. The first
// element becomes the primary image.
func (r RawProduct) SetImages(images []string) {
	for _, k := range imagesAliases {
		delete(r, k)
	}
	for _, k := range primaryImgAliases {
		delete(r, k)
	}
	list := make([]any, len(images))
	for i, img := range images {
		list[i] = img
	}
	r["images"] = list
	if len(images) > 0 {
		r["main_image"] = images[0]
	}
}

// Slugify converts a display name to a stable lowercase identifier.
// Unicode letters are preserved so non-Latin product names keep distinct
// slugs; every other run of characters collapses to a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // Suppress a leading hyphen.
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
