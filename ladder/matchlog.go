/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ladder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mikeb26/chesselo/elo"
	"github.com/mikeb26/chesselo/internal"
)

// Match is one line of a match log. Result is from White's perspective.
type Match struct {
	Date   time.Time
	White  string
	Black  string
	Result float64
	// Line is the line of the match log this match was read from.
	Line int
}

// ParseResult accepts the usual chess notations ("1-0", "0-1", "1/2-1/2",
// "½-½", "=") as well as a plain decimal score.
func ParseResult(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1-0", "w", "win":
		return elo.Win, nil
	case "0-1", "l", "loss":
		return elo.Loss, nil
	case "1/2-1/2", "½-½", "=", "d", "draw":
		return elo.Draw, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized result %q", s)
	}
	return f, nil
}

// ParseMatchLog reads matches in the form
//
//	date,white,black,result
//
// Blank lines and lines starting with '#' are ignored. Dates may be in any
// format dateparse understands and may be left empty. Result values are
// not range checked here; an out of range result is rejected when the
// match is recorded.
func ParseMatchLog(r io.Reader) ([]Match, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var matches []Match
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ladder.matchlog: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) != 4 {
			return nil, fmt.Errorf("ladder.matchlog: line %d: expected 4 fields, got %d",
				line, len(rec))
		}

		m := Match{
			White: internal.NormalizeName(rec[1]),
			Black: internal.NormalizeName(rec[2]),
			Line:  line,
		}
		m.Date, err = internal.ParseDateOrZero(rec[0])
		if err != nil {
			return nil, fmt.Errorf("ladder.matchlog: line %d: parsing date: %w",
				line, err)
		}
		if m.White == "" || m.Black == "" {
			return nil, fmt.Errorf("ladder.matchlog: line %d: missing player name",
				line)
		}
		m.Result, err = ParseResult(rec[3])
		if err != nil {
			return nil, fmt.Errorf("ladder.matchlog: line %d: %w", line, err)
		}

		matches = append(matches, m)
	}

	return matches, nil
}
