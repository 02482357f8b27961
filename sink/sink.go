// Package sink writes card records to an output file.
package sink

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/jeandeaual/tcg-cardscraper/card"
	"github.com/jeandeaual/tcg-cardscraper/log"
)

// ErrUnsupportedFormat is returned by Open for an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Sink receives the scraped records, in order.
type Sink interface {
	// Write a record
	Write(record card.Record) error
	// Close flushes the pending records and releases the output file
	Close() error
}

// Opener creates a Sink writing to path.
type Opener func(path string) (Sink, error)

// Openers are the registered sinks, by file extension.
var Openers map[string]Opener

func init() {
	Openers = make(map[string]Opener)

	registerOpeners(map[string]Opener{
		".csv":    openCSV,
		".tsv":    openTSV,
		".xlsx":   openXLSX,
		".db":     openSQLite,
		".sqlite": openSQLite,
	})
}

func registerOpeners(openers map[string]Opener) {
	for ext, opener := range openers {
		if _, found := Openers[ext]; found {
			panic("sink for file extension " + ext + " already registered")
		}

		Openers[ext] = opener
	}
}

// SupportedExtensions lists the file extensions Open accepts.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(Openers))
	for ext := range Openers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Open creates the sink matching the extension of path.
// An existing file is overwritten.
func Open(path string) (Sink, error) {
	ext := strings.ToLower(filepath.Ext(path))

	opener, found := Openers[ext]
	if !found {
		return nil, eris.Wrapf(
			ErrUnsupportedFormat,
			"no sink found for %q files (supported: %s)",
			ext,
			strings.Join(SupportedExtensions(), ", "),
		)
	}

	log.Infof("Writing records to %s", path)

	return opener(path)
}
