package sink

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/jeandeaual/tcg-cardscraper/card"
)

const createCardsTable = `CREATE TABLE cards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	hp TEXT NOT NULL,
	energy TEXT NOT NULL,
	card_type TEXT NOT NULL,
	evolution TEXT NOT NULL,
	evolved_from TEXT NOT NULL,
	attacks TEXT NOT NULL,
	damages TEXT NOT NULL,
	weakness TEXT NOT NULL,
	resistance TEXT NOT NULL,
	retreat_cost INTEGER NOT NULL,
	expansion TEXT NOT NULL,
	card_number TEXT NOT NULL,
	rarity TEXT NOT NULL,
	card_format TEXT NOT NULL,
	illustrators TEXT NOT NULL,
	variants TEXT NOT NULL,
	languages TEXT NOT NULL
)`

type sqliteSink struct {
	db     *sql.DB
	insert *sql.Stmt
}

func openSQLite(path string) (Sink, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, eris.Wrapf(err, "couldn't open %s", path)
	}

	// Same semantics as the other sinks: the output of a previous run is replaced
	for _, stmt := range []string{`DROP TABLE IF EXISTS cards`, createCardsTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, eris.Wrap(err, "couldn't create the cards table")
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(card.Columns)), ", ")
	insert, err := db.Prepare(fmt.Sprintf(
		"INSERT INTO cards (%s) VALUES (%s)",
		strings.Join(card.Columns, ", "),
		placeholders,
	))
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "couldn't prepare the insert statement")
	}

	return &sqliteSink{
		db:     db,
		insert: insert,
	}, nil
}

func (s *sqliteSink) Write(record card.Record) error {
	row := record.Row()
	args := make([]interface{}, len(row))
	for i, value := range row {
		if card.Columns[i] == "retreat_cost" {
			args[i] = record.RetreatCost
			continue
		}
		args[i] = value
	}

	_, err := s.insert.Exec(args...)
	return eris.Wrapf(err, "couldn't insert %s", record.Name)
}

func (s *sqliteSink) Close() error {
	if err := s.insert.Close(); err != nil {
		s.db.Close()
		return eris.Wrap(err, "couldn't close the insert statement")
	}
	return eris.Wrap(s.db.Close(), "couldn't close the database")
}
