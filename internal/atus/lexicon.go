package atus

import "strings"

// ActivityCode is one row of the ATUS Activity Coding Lexicon: a
// 6-digit code and its published description.
type ActivityCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Lexicon indexes activity codes for lookup and search.
type Lexicon struct {
	byCode map[string]string
	order  []ActivityCode
}

// NewLexicon builds a lexicon from parsed workbook rows. Later
// duplicates of a code win, matching how the workbook revises entries.
func NewLexicon(codes []ActivityCode) *Lexicon {
	l := &Lexicon{byCode: make(map[string]string, len(codes))}
	for _, c := range codes {
		if _, seen := l.byCode[c.Code]; !seen {
			l.order = append(l.order, c)
		}
		l.byCode[c.Code] = c.Description
	}
	return l
}

// Describe returns the description for an activity code.
func (l *Lexicon) Describe(code string) (string, bool) {
	d, ok := l.byCode[code]
	return d, ok
}

// Search returns all codes whose description contains the term,
// case-insensitive, in workbook order.
func (l *Lexicon) Search(term string) []ActivityCode {
	term = strings.ToLower(term)
	var out []ActivityCode
	for _, c := range l.order {
		if strings.Contains(strings.ToLower(l.byCode[c.Code]), term) {
			out = append(out, ActivityCode{Code: c.Code, Description: l.byCode[c.Code]})
		}
	}
	return out
}

// Len reports the number of distinct codes.
func (l *Lexicon) Len() int { return len(l.order) }

// All returns every code in workbook order.
func (l *Lexicon) All() []ActivityCode {
	out := make([]ActivityCode, len(l.order))
	for i, c := range l.order {
		out[i] = ActivityCode{Code: c.Code, Description: l.byCode[c.Code]}
	}
	return out
}

// ParseLexiconRows converts raw worksheet rows (code, description,
// ...) into activity codes, skipping headers and malformed rows. The
// workbook mixes section headings into the first column, so a row only
// counts when the code cell is all digits.
func ParseLexiconRows(rows [][]string) []ActivityCode {
	var codes []ActivityCode
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		code := strings.TrimSpace(row[0])
		desc := strings.TrimSpace(row[1])
		if code == "" || desc == "" || !allDigits(code) {
			continue
		}
		codes = append(codes, ActivityCode{Code: code, Description: desc})
	}
	return codes
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
