package sink

import (
	"encoding/csv"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/jeandeaual/tcg-cardscraper/card"
)

type csvSink struct {
	file    *os.File
	writer  *csv.Writer
	encoder *csvutil.Encoder
}

func openCSV(path string) (Sink, error) {
	return newCSVSink(path, ',')
}

func openTSV(path string) (Sink, error) {
	return newCSVSink(path, '\t')
}

func newCSVSink(path string, comma rune) (Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "couldn't create %s", path)
	}

	writer := csv.NewWriter(file)
	writer.Comma = comma

	encoder := csvutil.NewEncoder(writer)
	if err := encoder.EncodeHeader(card.Record{}); err != nil {
		_ = file.Close()
		return nil, eris.Wrap(err, "couldn't write the header")
	}

	return &csvSink{
		file:    file,
		writer:  writer,
		encoder: encoder,
	}, nil
}

// Write encodes the record and flushes it, so that the rows of an
// interrupted run are kept.
func (s *csvSink) Write(record card.Record) error {
	if err := s.encoder.Encode(record); err != nil {
		return eris.Wrapf(err, "couldn't encode %s", record.Name)
	}

	s.writer.Flush()

	return eris.Wrap(s.writer.Error(), "couldn't write to the output file")
}

func (s *csvSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = s.file.Close()
		return eris.Wrap(err, "couldn't flush the output file")
	}

	return eris.Wrap(s.file.Close(), "couldn't close the output file")
}
