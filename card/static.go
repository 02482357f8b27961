package card

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

var (
	titleContainerXPath     *xpath.Expr
	titleXPath              *xpath.Expr
	hitPointsContainerXPath *xpath.Expr
	hitPointsXPath          *xpath.Expr
	energyTypesXPath        *xpath.Expr
	energyXPath             *xpath.Expr
	cardTypeXPath           *xpath.Expr
	evolutionAnchorsXPath   *xpath.Expr
	anchorTextXPath         *xpath.Expr
	evolvedFromXPath        *xpath.Expr
	attackHeaderXPath       *xpath.Expr
	attackNameXPath         *xpath.Expr
	attackDamageXPath       *xpath.Expr
)

func init() {
	titleContainerXPath = xpath.MustCompile(`//div[@id='card-info-title-container']`)
	titleXPath = xpath.MustCompile(`h1/text()`)
	hitPointsContainerXPath = xpath.MustCompile(`//div[@id='card-hit-points-container']`)
	hitPointsXPath = xpath.MustCompile(`a/text()`)
	energyTypesXPath = xpath.MustCompile(`//a[@id='card-energy-types']`)
	energyXPath = xpath.MustCompile(`img/@title`)
	cardTypeXPath = xpath.MustCompile(`//span[@class='card-type-container']/text()`)
	evolutionAnchorsXPath = xpath.MustCompile(`//div[@id='card-evolution-status']/a`)
	anchorTextXPath = xpath.MustCompile(`text()`)
	evolvedFromXPath = xpath.MustCompile(`em/text()`)
	attackHeaderXPath = xpath.MustCompile(`//div[@class='card-attack-header-text']`)
	attackNameXPath = xpath.MustCompile(`h3/text()`)
	attackDamageXPath = xpath.MustCompile(`span/text()`)
}

// ExtractStatic reads the server-rendered attributes of a card page.
//
// Every lookup is independent: a missing element leaves its field at the
// zero value and never fails the extraction.
func ExtractStatic(doc *html.Node) StaticFields {
	var fields StaticFields

	if doc == nil {
		return fields
	}

	fields.Name = firstValue(scoped(doc, titleContainerXPath), titleXPath)
	fields.HP = firstValue(scoped(doc, hitPointsContainerXPath), hitPointsXPath)
	fields.Energy = firstValue(scoped(doc, energyTypesXPath), energyXPath)
	fields.CardType = strings.Join(allValues(doc, cardTypeXPath), "")

	extractEvolution(doc, &fields)
	extractAttacks(doc, &fields)
	extractFooter(doc, &fields)

	return fields
}

func extractEvolution(doc *html.Node, fields *StaticFields) {
	anchors := htmlquery.QuerySelectorAll(doc, evolutionAnchorsXPath)
	if len(anchors) > 0 {
		fields.Evolution = firstValue(anchors[0], anchorTextXPath)
	}
	if len(anchors) > 1 {
		fields.EvolvedFrom = firstValue(anchors[1], evolvedFromXPath)
	}
}

// extractAttacks keeps Attacks and Damages the same length. A header with
// a damage but no name is not an attack and is skipped entirely.
func extractAttacks(doc *html.Node, fields *StaticFields) {
	for _, header := range htmlquery.QuerySelectorAll(doc, attackHeaderXPath) {
		name, found := lookup(header, attackNameXPath)
		if !found {
			continue
		}

		damage, found := lookup(header, attackDamageXPath)
		if !found {
			damage = "0"
		}

		fields.Attacks = append(fields.Attacks, name)
		fields.Damages = append(fields.Damages, damage)
	}
}
