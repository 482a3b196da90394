package domain

import (
	"regexp"
	"strings"
)

// LineMode tags how a line item was priced.
type LineMode string

const (
	ModeCatalog LineMode = "CATALOG"
	ModeManual  LineMode = "MANUAL"
)

// Wire markers for manual lines. The remote schema has no mode column, so
// these are what a stored row carries, and the only signal Resume has when
// it re-derives the mode (see InferMode).
const (
	ManualFinish     = "MANUAL"
	ManualSizePrefix = "ESPECIAL: "
	ManualSpecSuffix = "MANUAL"

	// PremiumPaperName is the premium paper brand. A line with the premium
	// flag set stores this as its paper value.
	PremiumPaperName = "KENFOR"
)

// Line-builder form defaults, mirroring the shop's most common order.
const (
	DefaultSize     = "INFANTIL"
	DefaultQuantity = 6
	DefaultFinish   = "COLOR"
	DefaultPaper    = "MATE"

	DefaultManualDescription = "Credencial 2.5x3.5"
	DefaultManualPrice       = 75.0
	DefaultManualQuantity    = 1
)

// LineItem is the cart's unit of work. LocalID is generated client-side and
// never reused across items; it survives edits (Update replaces in place) and
// is regenerated when a cart is rebuilt from remote rows.
//
// UnitPrice and Subtotal are always equal: the catalog price already covers
// the whole package ("6 photos" is a package size, not a repeat-purchase
// multiplier), and manual lines are priced per package by definition.
type LineItem struct {
	LocalID      string   `json:"local_id"`
	Mode         LineMode `json:"mode"`
	Size         string   `json:"size"`
	Quantity     int      `json:"quantity"`
	Finish       string   `json:"finish"`
	Paper        string   `json:"paper"`
	PremiumPaper bool     `json:"premium_paper"`
	Urgent       bool     `json:"urgent"`
	Clothing     string   `json:"clothing"`
	Specs        string   `json:"specs"`
	UnitPrice    float64  `json:"unit_price"`
	Subtotal     float64  `json:"subtotal"`
}

// NewCatalogLine builds a catalog-priced line. The caller resolves the price
// with PriceCatalogLine first; this just normalizes the descriptive fields.
func NewCatalogLine(localID, size string, quantity int, finish, paper string, premium, urgent bool, clothing, specs string, price float64) LineItem {
	if premium {
		paper = PremiumPaperName
	} else {
		paper = NormalizeSize(paper)
	}
	return LineItem{
		LocalID:      localID,
		Mode:         ModeCatalog,
		Size:         NormalizeSize(size),
		Quantity:     quantity,
		Finish:       NormalizeSize(finish),
		Paper:        paper,
		PremiumPaper: premium,
		Urgent:       urgent,
		Clothing:     strings.TrimSpace(clothing),
		Specs:        strings.TrimSpace(specs),
		UnitPrice:    price,
		Subtotal:     price,
	}
}

// NewManualLine builds a manually priced "special" line. The description goes
// into the size field behind the ESPECIAL prefix and the specs text gets the
// MANUAL suffix, matching the production wire format.
func NewManualLine(localID, description string, quantity int, paper string, premium, urgent bool, clothing, specs string, packagePrice float64) LineItem {
	price := PriceManualLine(packagePrice)
	if premium {
		paper = PremiumPaperName
	} else {
		paper = NormalizeSize(paper)
	}
	specs = strings.TrimSpace(specs)
	if specs != "" {
		specs += " | " + ManualSpecSuffix
	} else {
		specs = ManualSpecSuffix
	}
	if quantity < 1 {
		quantity = 1
	}
	return LineItem{
		LocalID:      localID,
		Mode:         ModeManual,
		Size:         strings.TrimSpace(ManualSizePrefix + strings.TrimSpace(description)),
		Quantity:     quantity,
		Finish:       ManualFinish,
		Paper:        paper,
		PremiumPaper: premium,
		Urgent:       urgent,
		Clothing:     strings.TrimSpace(clothing),
		Specs:        specs,
		UnitPrice:    price,
		Subtotal:     price, // package price, never multiplied by quantity
	}
}

// ManualDescription strips the wire prefix from a manual line's size field so
// the edit form can prefill the plain description.
func ManualDescription(size string) string {
	return strings.TrimSpace(manualPrefixRe.ReplaceAllString(size, ""))
}

// StripManualSuffix removes the trailing MANUAL marker from a specs string
// when prefilling the edit form.
func StripManualSuffix(specs string) string {
	return strings.TrimSpace(manualSuffixRe.ReplaceAllString(specs, ""))
}

var (
	manualPrefixRe = regexp.MustCompile(`(?i)^ESPECIAL:\s*`)
	manualSuffixRe = regexp.MustCompile(`(?i)\|?\s*MANUAL$`)
)

// InferMode re-derives a line's mode from its stored fields. The remote
// schema does not record the mode, so Resume has to guess: a row is manual
// iff its finish equals the MANUAL marker or its size carries the ESPECIAL
// marker. Anything ambiguous defaults to CATALOG. The guess is lossy; a
// schema mode column would replace this function.
func InferMode(size, finish string) LineMode {
	if strings.EqualFold(strings.TrimSpace(finish), ManualFinish) {
		return ModeManual
	}
	if strings.Contains(strings.ToUpper(size), "ESPECIAL") {
		return ModeManual
	}
	return ModeCatalog
}
