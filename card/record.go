// Package card maps tcgcollector card pages to flat card records.
package card

import (
	"strconv"
	"strings"
)

// ListSeparator joins the elements of list-valued fields.
const ListSeparator = ";"

// List is an ordered list of labels, serialized as a single ListSeparator
// joined string.
type List []string

// SplitList is the inverse of List.String. The empty string gives an empty
// (nil) list.
func SplitList(s string) List {
	if len(s) == 0 {
		return nil
	}
	return strings.Split(s, ListSeparator)
}

// String joins the list with ListSeparator.
func (l List) String() string {
	return strings.Join(l, ListSeparator)
}

// MarshalText implements encoding.TextMarshaler.
func (l List) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *List) UnmarshalText(text []byte) error {
	*l = SplitList(string(text))
	return nil
}

// StaticFields are the attributes rendered server-side on a card page.
type StaticFields struct {
	// Name is the card title.
	Name string `csv:"name"`
	// HP is the hit-point value as printed. Empty for trainer and energy cards.
	HP string `csv:"hp"`
	// Energy is the primary energy type.
	Energy string `csv:"energy"`
	// CardType is every type label concatenated without a separator.
	CardType string `csv:"card_type"`
	// Evolution is the evolution stage.
	Evolution string `csv:"evolution"`
	// EvolvedFrom is the predecessor species, empty for basic cards.
	EvolvedFrom string `csv:"evolved_from"`
	// Attacks are the attack names in document order.
	Attacks List `csv:"attacks"`
	// Damages are parallel to Attacks, "0" when no damage is printed.
	Damages List `csv:"damages"`
	// Weakness is a type label immediately followed by its multiplier.
	Weakness string `csv:"weakness"`
	// Resistance is a type label immediately followed by its modifier.
	Resistance string `csv:"resistance"`
	// RetreatCost is the number of retreat cost icons.
	RetreatCost  int    `csv:"retreat_cost"`
	Expansion    string `csv:"expansion"`
	CardNumber   string `csv:"card_number"`
	Rarity       string `csv:"rarity"`
	CardFormat   string `csv:"card_format"`
	Illustrators string `csv:"illustrators"`
}

// DynamicFields are the attributes only present once the collection modal
// of a card page has been opened.
type DynamicFields struct {
	Variants  List `csv:"variants"`
	Languages List `csv:"languages"`
}

// Record is one output row. The static and dynamic field sets never
// overlap, so a Record is simply both halves side by side.
type Record struct {
	StaticFields
	DynamicFields
}

// Columns are the output column names, in output order.
var Columns = []string{
	"name",
	"hp",
	"energy",
	"card_type",
	"evolution",
	"evolved_from",
	"attacks",
	"damages",
	"weakness",
	"resistance",
	"retreat_cost",
	"expansion",
	"card_number",
	"rarity",
	"card_format",
	"illustrators",
	"variants",
	"languages",
}

// Assemble merges the two halves of a card into a Record.
func Assemble(static StaticFields, dynamic DynamicFields) Record {
	return Record{
		StaticFields:  static,
		DynamicFields: dynamic,
	}
}

// Row returns the record values in Columns order, with lists joined.
func (r Record) Row() []string {
	return []string{
		r.Name,
		r.HP,
		r.Energy,
		r.CardType,
		r.Evolution,
		r.EvolvedFrom,
		r.Attacks.String(),
		r.Damages.String(),
		r.Weakness,
		r.Resistance,
		strconv.Itoa(r.RetreatCost),
		r.Expansion,
		r.CardNumber,
		r.Rarity,
		r.CardFormat,
		r.Illustrators,
		r.Variants.String(),
		r.Languages.String(),
	}
}
