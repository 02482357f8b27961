package sink

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/jeandeaual/tcg-cardscraper/card"
)

var testRecords = []card.Record{
	card.Assemble(
		card.StaticFields{
			Name:         "Pikachu",
			HP:           "40",
			Energy:       "Lightning",
			CardType:     "PokémonBasic",
			Evolution:    "Basic",
			Attacks:      card.List{"Thunder Shock", "Quick Attack"},
			Damages:      card.List{"20", "0"},
			Weakness:     "Fighting×2",
			RetreatCost:  1,
			Expansion:    "Base Set",
			CardNumber:   "58/102",
			Rarity:       "Common",
			CardFormat:   "Unlimited",
			Illustrators: "Mitsuhiro Arita",
		},
		card.DynamicFields{
			Variants:  card.List{"Normal", "Reverse Holo"},
			Languages: card.List{"EN", "JP", "FR"},
		},
	),
	card.Assemble(
		card.StaticFields{
			Name:     "Professor's Research",
			CardType: "TrainerSupporter",
		},
		card.DynamicFields{},
	),
}

func writeAll(t *testing.T, path string) {
	t.Helper()

	s, err := Open(path)
	require.NoError(t, err)

	for _, record := range testRecords {
		require.NoError(t, s.Write(record))
	}
	require.NoError(t, s.Close())
}

func TestOpenUnsupportedFormat(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "cards.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Open(filepath.Join(t.TempDir(), "cards"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".csv", ".db", ".sqlite", ".tsv", ".xlsx"}, SupportedExtensions())
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.CSV")
	writeAll(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []card.Record
	require.NoError(t, csvutil.Unmarshal(data, &records))

	assert.Equal(t, testRecords, records)
}

func TestCSVLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	writeAll(t, path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, card.Columns, rows[0])
	assert.Equal(t, testRecords[0].Row(), rows[1])
	assert.Equal(t, "Thunder Shock;Quick Attack", rows[1][6])
	assert.Equal(t, "20;0", rows[1][7])
	assert.Equal(t, "0", rows[2][10])
}

func TestCSVHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{card.Columns}, rows)
}

func TestTSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.tsv")
	writeAll(t, path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'

	decoder, err := csvutil.NewDecoder(reader)
	require.NoError(t, err)

	var records []card.Record
	require.NoError(t, decoder.Decode(&records))

	assert.Equal(t, testRecords, records)
}

func TestXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.xlsx")
	writeAll(t, path)

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sheet, found := file.Sheet[xlsxSheetName]
	require.True(t, found)
	require.Len(t, sheet.Rows, 3)

	var header []string
	for _, cell := range sheet.Rows[0].Cells {
		header = append(header, cell.String())
	}
	assert.Equal(t, card.Columns, header)

	assert.Equal(t, "Pikachu", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Normal;Reverse Holo", sheet.Rows[1].Cells[16].String())

	retreatCost, err := sheet.Rows[1].Cells[10].Int()
	require.NoError(t, err)
	assert.Equal(t, 1, retreatCost)
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.db")
	writeAll(t, path)
	// A second run replaces the previous output
	writeAll(t, path)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&count))
	assert.Equal(t, len(testRecords), count)

	var (
		attacks     string
		retreatCost int
		languages   string
	)
	require.NoError(t, db.QueryRow(
		`SELECT attacks, retreat_cost, languages FROM cards WHERE name = ?`, "Pikachu",
	).Scan(&attacks, &retreatCost, &languages))

	assert.Equal(t, testRecords[0].Attacks, card.SplitList(attacks))
	assert.Equal(t, 1, retreatCost)
	assert.Equal(t, testRecords[0].Languages, card.SplitList(languages))
}
