package domain

// DifficultyUnknown marks questions whose source carried no difficulty tag.
const DifficultyUnknown = -1

// Question is a single trivia question with its ordered option set. Exactly
// one option is correct. Questions are immutable once built.
type Question struct {
	Text       string
	Options    []Answer
	Difficulty int
}

// Option returns the option at the given display position.
func (q Question) Option(num int) (Answer, bool) {
	if num < 0 || num >= len(q.Options) {
		return Answer{}, false
	}
	return q.Options[num], true
}

// CorrectOption returns the question's correct option.
func (q Question) CorrectOption() (Answer, bool) {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt, true
		}
	}
	return Answer{}, false
}

// OptionIndex locates an answer within the question's options by text.
func (q Question) OptionIndex(a Answer) (int, bool) {
	for i, opt := range q.Options {
		if opt.Equal(a) {
			return i, true
		}
	}
	return 0, false
}

// Less orders questions by difficulty then text; untagged questions order by
// text alone.
func (q Question) Less(other Question) bool {
	if q.Difficulty == DifficultyUnknown || other.Difficulty == DifficultyUnknown {
		return q.Text < other.Text
	}
	if q.Difficulty != other.Difficulty {
		return q.Difficulty < other.Difficulty
	}
	return q.Text < other.Text
}
