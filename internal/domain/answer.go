package domain

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// Answer is one option of a question. OptionNum is the option's position in
// the final display order and is the only part of a response that travels on
// the wire.
type Answer struct {
	Correct   bool
	OptionNum int
	Text      string
}

// CorrectAnswer builds the correct option for a question.
func CorrectAnswer(text string) Answer {
	return Answer{Correct: true, Text: text}
}

// IncorrectAnswer builds a wrong option for a question.
func IncorrectAnswer(text string) Answer {
	return Answer{Text: text}
}

// Equal reports whether two answers are the same option. Identity is the text,
// not the index, so answers survive independent reconstruction of the
// question list on each device.
func (a Answer) Equal(other Answer) bool {
	return a.Text == other.Text
}

// Numeric parses the answer text as a number, tolerating thousands separators.
func (a Answer) Numeric() (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(a.Text, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Letter returns the display letter for the option's position.
func (a Answer) Letter() string {
	letters := []string{"a", "b", "c", "d"}
	if a.OptionNum < 0 || a.OptionNum >= len(letters) {
		return letters[0]
	}
	return letters[a.OptionNum]
}

// BuildOptions assembles the option set for a question from one correct text
// and the remaining incorrect texts, applies the presentation order, and
// assigns final option numbers.
//
// Order policy: an all-numeric option set sorts ascending; "False" questions
// reverse the natural order so True displays first; "True" questions keep the
// natural order; anything else is shuffled.
func BuildOptions(correct string, incorrect []string, rnd *rand.Rand) []Answer {
	options := make([]Answer, 0, len(incorrect)+1)
	options = append(options, CorrectAnswer(correct))
	for _, text := range incorrect {
		options = append(options, IncorrectAnswer(text))
	}

	if allNumeric(options) {
		sort.SliceStable(options, func(i, j int) bool {
			left, _ := options[i].Numeric()
			right, _ := options[j].Numeric()
			return left < right
		})
	} else if correct == "False" {
		for i, j := 0, len(options)-1; i < j; i, j = i+1, j-1 {
			options[i], options[j] = options[j], options[i]
		}
	} else if correct != "True" {
		rnd.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
	}

	for i := range options {
		options[i].OptionNum = i
	}
	return options
}

func allNumeric(options []Answer) bool {
	for _, opt := range options {
		if _, ok := opt.Numeric(); !ok {
			return false
		}
	}
	return true
}
