// Package query parses raw query text into plus-words (must be present,
// contribute to relevance) and minus-words (presence disqualifies a
// document).
package query

import (
	"strings"

	"github.com/tfsearch/searchd/internal/engine/tokenizer"
	"github.com/tfsearch/searchd/pkg/errors"
)

// Query is a parsed search query. Both word groups are sets: repeated tokens
// collapse, and a token classified as a stop word appears in neither.
type Query struct {
	Plus  map[string]struct{}
	Minus map[string]struct{}
}

type queryWord struct {
	data    string
	isMinus bool
	isStop  bool
}

// Parse splits raw into words and classifies each occurrence. A leading '-'
// marks a minus-word and is stripped; isStop filters stop words out of both
// groups. Classification is per occurrence, so "cat -cat" records the token
// in both groups.
func Parse(raw string, isStop func(string) bool) (Query, error) {
	if !tokenizer.IsValidWord(raw) {
		return Query{}, errors.New(errors.ErrInvalidText, 400,
			"query contains control characters")
	}
	q := Query{
		Plus:  make(map[string]struct{}),
		Minus: make(map[string]struct{}),
	}
	for _, word := range tokenizer.SplitIntoWords(raw) {
		qw, err := parseWord(word, isStop)
		if err != nil {
			return Query{}, err
		}
		if qw.isStop {
			continue
		}
		if qw.isMinus {
			q.Minus[qw.data] = struct{}{}
		} else {
			q.Plus[qw.data] = struct{}{}
		}
	}
	return q, nil
}

func parseWord(text string, isStop func(string) bool) (queryWord, error) {
	isMinus := false
	if strings.HasPrefix(text, "-") {
		isMinus = true
		text = text[1:]
	}
	if !tokenizer.IsValidWord(text) {
		return queryWord{}, errors.Newf(errors.ErrInvalidText, 400,
			"query word %q contains control characters", text)
	}
	if text == "" || strings.HasPrefix(text, "-") {
		return queryWord{}, errors.Newf(errors.ErrInvalidMinusWord, 400,
			"malformed minus word %q", "-"+text)
	}
	return queryWord{data: text, isMinus: isMinus, isStop: isStop(text)}, nil
}
