package card

import (
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/jeandeaual/tcg-cardscraper/log"
)

// Category is the kind of a card page footer item.
type Category int

const (
	// CategoryIgnored is any footer label the scraper doesn't record
	CategoryIgnored Category = iota
	// CategoryWeakness is the weakness type and multiplier
	CategoryWeakness
	// CategoryResistance is the resistance type and modifier
	CategoryResistance
	// CategoryRetreatCost is the list of retreat cost icons
	CategoryRetreatCost
	// CategoryExpansion is the expansion the card belongs to
	CategoryExpansion
	// CategoryCardNumber is the number of the card in its expansion
	CategoryCardNumber
	// CategoryRarity is the card rarity
	CategoryRarity
	// CategoryCardFormat is the format the card is legal in
	CategoryCardFormat
	// CategoryIllustrators is the card illustrator
	CategoryIllustrators
)

// categoryLabels maps the exact footer heading text to its category.
// Labels are case-sensitive and compared untrimmed.
var categoryLabels = map[string]Category{
	"Weakness":     CategoryWeakness,
	"Resistance":   CategoryResistance,
	"Retreat Cost": CategoryRetreatCost,
	"Expansion":    CategoryExpansion,
	"Card number":  CategoryCardNumber,
	"Rarity":       CategoryRarity,
	"Card format":  CategoryCardFormat,
	"Illustrators": CategoryIllustrators,
}

// ParseCategory returns the category for a footer heading.
// Unknown labels give CategoryIgnored.
func ParseCategory(label string) Category {
	if category, found := categoryLabels[label]; found {
		return category
	}
	return CategoryIgnored
}

func (c Category) String() string {
	switch c {
	case CategoryWeakness:
		return "Weakness"
	case CategoryResistance:
		return "Resistance"
	case CategoryRetreatCost:
		return "Retreat Cost"
	case CategoryExpansion:
		return "Expansion"
	case CategoryCardNumber:
		return "Card number"
	case CategoryRarity:
		return "Rarity"
	case CategoryCardFormat:
		return "Card format"
	case CategoryIllustrators:
		return "Illustrators"
	default:
		return "ignored"
	}
}

var (
	footerItemXPath      *xpath.Expr
	footerLabelXPath     *xpath.Expr
	typeIconXPath        *xpath.Expr
	typeModifierXPath    *xpath.Expr
	retreatIconXPath     *xpath.Expr
	footerLinkXPath      *xpath.Expr
	footerSpanXPath      *xpath.Expr
	illustratorLinkXPath *xpath.Expr
)

func init() {
	footerItemXPath = xpath.MustCompile(`//div[@class='card-info-footer-item']`)
	footerLabelXPath = xpath.MustCompile(`h3/text()`)
	typeIconXPath = xpath.MustCompile(`a/div/img/@title`)
	typeModifierXPath = xpath.MustCompile(`a/div/span/text()`)
	retreatIconXPath = xpath.MustCompile(`a/img`)
	footerLinkXPath = xpath.MustCompile(`div/a/text()`)
	footerSpanXPath = xpath.MustCompile(`div/span/text()`)
	illustratorLinkXPath = xpath.MustCompile(`div/span/a/text()`)
}

// footerLabel returns the raw text of the first heading text node of a
// footer item. The text is not trimmed, matching is exact.
func footerLabel(item *html.Node) (string, bool) {
	node := htmlquery.QuerySelector(item, footerLabelXPath)
	if node == nil {
		return "", false
	}
	return htmlquery.InnerText(node), true
}

func extractFooter(doc *html.Node, fields *StaticFields) {
	for _, item := range htmlquery.QuerySelectorAll(doc, footerItemXPath) {
		label, found := footerLabel(item)
		if !found {
			continue
		}

		category := ParseCategory(label)

		switch category {
		case CategoryWeakness:
			fields.Weakness = firstValue(item, typeIconXPath) + firstValue(item, typeModifierXPath)
		case CategoryResistance:
			fields.Resistance = firstValue(item, typeIconXPath) + firstValue(item, typeModifierXPath)
		case CategoryRetreatCost:
			fields.RetreatCost = count(item, retreatIconXPath)
		case CategoryExpansion:
			if value, found := lookup(item, footerLinkXPath); found {
				fields.Expansion = value
			}
		case CategoryCardNumber:
			if value, found := lookup(item, footerSpanXPath); found {
				fields.CardNumber = value
			}
		case CategoryRarity:
			if value, found := lookup(item, footerLinkXPath); found {
				fields.Rarity = value
			}
		case CategoryCardFormat:
			// Unlimited cards use a span, standard and expanded cards a link.
			// Both shapes are always tried and the link wins.
			if value, found := lookup(item, footerSpanXPath); found {
				fields.CardFormat = value
			}
			if value, found := lookup(item, footerLinkXPath); found {
				fields.CardFormat = value
			}
		case CategoryIllustrators:
			if value, found := lookup(item, illustratorLinkXPath); found {
				fields.Illustrators = value
			}
		case CategoryIgnored:
			log.Debugw("Ignoring footer item", "label", label)
		}
	}
}
