package card

import (
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := htmlquery.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

const raichuPage = `<html><body>
<div id="card-info-title-container">
  <h1>  Raichu  </h1>
</div>
<div id="card-hit-points-container"><a href="/hp/80"> 80 </a></div>
<a id="card-energy-types" href="/energy/lightning"><img src="l.png" title=" Lightning "></a>
<span class="card-type-container"> Pokémon </span>
<span class="card-type-container">Stage 1</span>
<div id="card-evolution-status">
  <a href="/stage/1"> Stage 1 </a>
  <a href="/pokemon/pikachu">Evolves from <em> Pikachu </em></a>
</div>
<div class="card-attack-header-text"><h3>Agility</h3><span>20</span></div>
<div class="card-attack-header-text"><h3> Thunder </h3><span> 60 </span></div>
<div class="card-attack-header-text"><h3>Gnaw</h3></div>
<div class="card-info-footer">
  <div class="card-info-footer-item">
    <h3>Weakness</h3>
    <a href="/weakness"><div><img src="f.png" title="Fighting"><span> ×2 </span></div></a>
  </div>
  <div class="card-info-footer-item">
    <h3>Resistance</h3>
    <a href="/resistance"><div><img src="m.png" title="Metal"><span>-20</span></div></a>
  </div>
  <div class="card-info-footer-item">
    <h3>Retreat Cost</h3>
    <a href="/retreat"><img src="c.png" title="Colorless"></a>
  </div>
  <div class="card-info-footer-item">
    <h3>Expansion</h3>
    <div><a href="/sets/base"> Base Set </a></div>
  </div>
  <div class="card-info-footer-item">
    <h3>Card number</h3>
    <div><span>14/102</span></div>
  </div>
  <div class="card-info-footer-item">
    <h3>Rarity</h3>
    <div><a href="/rarity/holo">Rare Holo</a></div>
  </div>
  <div class="card-info-footer-item">
    <h3>Card format</h3>
    <div><span>Unlimited</span></div>
  </div>
  <div class="card-info-footer-item">
    <h3>Illustrators</h3>
    <div><span><a href="/illustrators/ken"> Ken Sugimori </a></span></div>
  </div>
  <div class="card-info-footer-item">
    <h3>Release date</h3>
    <div><span>1999-01-09</span></div>
  </div>
</div>
</body></html>`

func TestExtractStatic(t *testing.T) {
	fields := ExtractStatic(parse(t, raichuPage))

	expected := StaticFields{
		Name:         "Raichu",
		HP:           "80",
		Energy:       "Lightning",
		CardType:     "PokémonStage 1",
		Evolution:    "Stage 1",
		EvolvedFrom:  "Pikachu",
		Attacks:      List{"Agility", "Thunder", "Gnaw"},
		Damages:      List{"20", "60", "0"},
		Weakness:     "Fighting×2",
		Resistance:   "Metal-20",
		RetreatCost:  1,
		Expansion:    "Base Set",
		CardNumber:   "14/102",
		Rarity:       "Rare Holo",
		CardFormat:   "Unlimited",
		Illustrators: "Ken Sugimori",
	}

	assert.Equal(t, expected, fields)
}

func TestExtractStaticEmptyDocument(t *testing.T) {
	assert.Equal(t, StaticFields{}, ExtractStatic(parse(t, "<html><body></body></html>")))
	assert.Equal(t, StaticFields{}, ExtractStatic(nil))
}

func TestExtractStaticFieldsAreTrimmed(t *testing.T) {
	fields := ExtractStatic(parse(t, raichuPage))

	for i, value := range (Record{StaticFields: fields}).Row() {
		assert.Equal(t, strings.TrimSpace(value), value, "column %s", Columns[i])
	}
	for _, value := range append(fields.Attacks, fields.Damages...) {
		assert.Equal(t, strings.TrimSpace(value), value)
	}
}

func TestName(t *testing.T) {
	fields := ExtractStatic(parse(t, `<div id="card-info-title-container"><h1>Pikachu</h1></div>`))
	assert.Equal(t, "Pikachu", fields.Name)

	// A heading outside of the title container is not the card name
	fields = ExtractStatic(parse(t, `<div id="other"><h1>Pikachu</h1></div>`))
	assert.Equal(t, "", fields.Name)
}

func TestAttacks(t *testing.T) {
	fields := ExtractStatic(parse(t, `
<div class="card-attack-header-text"><h3>Thunder Shock</h3><span>20</span></div>
<div class="card-attack-header-text"><h3>Quick Attack</h3></div>`))

	assert.Equal(t, "Thunder Shock;Quick Attack", fields.Attacks.String())
	assert.Equal(t, "20;0", fields.Damages.String())
}

func TestAttacksDamageWithoutName(t *testing.T) {
	fields := ExtractStatic(parse(t, `
<div class="card-attack-header-text"><span>30</span></div>
<div class="card-attack-header-text"><h3>Tackle</h3><span>10</span></div>
<div class="card-attack-header-text"><h3></h3><span>50</span></div>`))

	assert.Equal(t, List{"Tackle"}, fields.Attacks)
	assert.Equal(t, List{"10"}, fields.Damages)
}

func TestAttacksParallelLists(t *testing.T) {
	pages := []string{
		``,
		`<div class="card-attack-header-text"></div>`,
		`<div class="card-attack-header-text"><span>10</span></div>`,
		`<div class="card-attack-header-text"><h3>A</h3></div><div class="card-attack-header-text"><h3>B</h3><span>10+</span></div>`,
		raichuPage,
	}

	for _, page := range pages {
		fields := ExtractStatic(parse(t, page))
		assert.Len(t, fields.Damages, len(fields.Attacks))
		assert.Len(t,
			strings.Split(fields.Damages.String(), ListSeparator),
			len(strings.Split(fields.Attacks.String(), ListSeparator)),
		)
	}
}

func TestEvolutionBaseStage(t *testing.T) {
	fields := ExtractStatic(parse(t, `<div id="card-evolution-status"><a href="/basic">Basic</a></div>`))

	assert.Equal(t, "Basic", fields.Evolution)
	assert.Equal(t, "", fields.EvolvedFrom)
}

func TestEvolutionSecondAnchorWithoutEmphasis(t *testing.T) {
	fields := ExtractStatic(parse(t, `<div id="card-evolution-status"><a>Stage 2</a><a>Ivysaur</a></div>`))

	assert.Equal(t, "Stage 2", fields.Evolution)
	assert.Equal(t, "", fields.EvolvedFrom)
}

func TestCardTypeConcatenation(t *testing.T) {
	fields := ExtractStatic(parse(t, `
<span class="card-type-container"> Trainer </span>
<span class="card-type-container">
  Item
</span>
<span class="card-type-container other">Ignored</span>`))

	assert.Equal(t, "TrainerItem", fields.CardType)
}

func TestEnergyUsesFirstImageTitle(t *testing.T) {
	fields := ExtractStatic(parse(t, `
<a id="card-energy-types"><img title="Water"><img title="Psychic"></a>`))

	assert.Equal(t, "Water", fields.Energy)
}

func TestHitPointsWithoutLink(t *testing.T) {
	fields := ExtractStatic(parse(t, `<div id="card-hit-points-container">HP 60</div>`))

	assert.Equal(t, "", fields.HP)
}
