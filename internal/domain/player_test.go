package domain

import "testing"

func respOptions() (Answer, Answer) {
	return Answer{Correct: true, OptionNum: 0, Text: "right"},
		Answer{OptionNum: 1, Text: "wrong"}
}

func TestRecordDoesNotOverwrite(t *testing.T) {
	right, wrong := respOptions()
	player := NewPlayer("p1", 4)

	if !player.Record(1, right) {
		t.Fatalf("first record should succeed")
	}
	if player.Record(1, wrong) {
		t.Fatalf("second record at the same index should be ignored")
	}
	if got := player.Responses[1]; got == nil || got.Text != "right" {
		t.Fatalf("original response must survive, got %+v", got)
	}
}

func TestScoreCountsCorrectResponses(t *testing.T) {
	right, wrong := respOptions()
	player := NewPlayer("p1", 4)
	player.Record(0, right)
	player.Record(1, wrong)
	player.Record(2, right)

	if got := player.Score(); got != 2 {
		t.Fatalf("want score 2, got %d", got)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	right, _ := respOptions()
	player := NewPlayer("p1", 4)
	player.Record(0, right)

	player.Merge(player)

	if player.AnsweredCount() != 1 {
		t.Fatalf("self-merge changed response count: %d", player.AnsweredCount())
	}
	if player.Responses[0] == nil || player.Responses[0].Text != "right" {
		t.Fatalf("self-merge changed response: %+v", player.Responses[0])
	}
}

func TestMergeFillsGapsWithoutOverwriting(t *testing.T) {
	right, wrong := respOptions()

	a := NewPlayer("p1", 4)
	a.Record(0, right)
	a.Record(2, right)

	b := NewPlayer("p1", 4)
	b.Record(1, wrong)
	b.Record(2, wrong)
	b.Record(3, right)

	a.Merge(b)

	if a.Responses[0] == nil || a.Responses[0].Text != "right" {
		t.Fatalf("slot 0 lost: %+v", a.Responses[0])
	}
	if a.Responses[1] == nil || a.Responses[1].Text != "wrong" {
		t.Fatalf("slot 1 not filled from peer: %+v", a.Responses[1])
	}
	if a.Responses[2] == nil || a.Responses[2].Text != "right" {
		t.Fatalf("slot 2 must keep the local value, got %+v", a.Responses[2])
	}
	if a.Responses[3] == nil || a.Responses[3].Text != "right" {
		t.Fatalf("slot 3 not filled from peer: %+v", a.Responses[3])
	}
}

func TestMergeWithNilIsNoop(t *testing.T) {
	right, _ := respOptions()
	player := NewPlayer("p1", 2)
	player.Record(0, right)

	player.Merge(nil)

	if player.AnsweredCount() != 1 {
		t.Fatalf("nil merge changed responses")
	}
}

func TestCompressAndRestoreResponses(t *testing.T) {
	questions := []Question{
		{Text: "q0", Options: []Answer{{Correct: true, OptionNum: 0, Text: "a"}, {OptionNum: 1, Text: "b"}}},
		{Text: "q1", Options: []Answer{{OptionNum: 0, Text: "c"}, {Correct: true, OptionNum: 1, Text: "d"}}},
		{Text: "q2", Options: []Answer{{Correct: true, OptionNum: 0, Text: "e"}, {OptionNum: 1, Text: "f"}}},
	}

	player := NewPlayer("p1", 3)
	player.Record(0, questions[0].Options[1])
	player.Record(1, questions[1].Options[1])

	compact := player.CompressResponses()
	if len(compact) != 2 || compact[0] != 1 || compact[1] != 1 {
		t.Fatalf("unexpected compact responses: %v", compact)
	}

	restored := NewPlayer("p1", 3)
	restored.RestoreResponses(questions, compact)

	if restored.Responses[0] == nil || restored.Responses[0].Text != "b" {
		t.Fatalf("slot 0 restored wrong: %+v", restored.Responses[0])
	}
	if restored.Responses[1] == nil || !restored.Responses[1].Correct {
		t.Fatalf("slot 1 restored wrong: %+v", restored.Responses[1])
	}
	if restored.Responses[2] != nil {
		t.Fatalf("slot 2 should stay unanswered")
	}
	if restored.Score() != player.Score() {
		t.Fatalf("score changed across compress/restore: %d vs %d", restored.Score(), player.Score())
	}
}
