package game

import (
	"math/rand"
	"testing"
	"time"
)

func newTestEngine(seed int64) *Engine {
	return NewEngine(NewGeneratorWithRand(rand.New(rand.NewSource(seed))))
}

// answerCurrent submits the correct answer for the engine's current question.
func answerCurrent(t *testing.T, e *Engine) Snapshot {
	t.Helper()
	snap := e.Snapshot()
	if snap.Question == nil {
		t.Fatal("expected an active question")
	}
	_, next := e.SubmitAnswer(snap.Question.ExpectedAnswer)
	return next
}

func TestEngineStart(t *testing.T) {
	e := newTestEngine(1)

	snap := e.Start()
	if snap.State != StateRunning {
		t.Fatalf("state = %s, want %s", snap.State, StateRunning)
	}
	if snap.Score != 0 || snap.Level != 1 || snap.CorrectAnswers != 0 || snap.TotalQuestions != 0 {
		t.Fatalf("counters not reset: %+v", snap)
	}
	if snap.TimeRemaining != 60*time.Second {
		t.Fatalf("timeRemaining = %s, want 60s", snap.TimeRemaining)
	}
	if snap.Question == nil {
		t.Fatal("expected a question on start")
	}
}

func TestEngineScoring(t *testing.T) {
	t.Run("correct answer adds level times ten", func(t *testing.T) {
		e := newTestEngine(2)
		e.Start()

		snap := answerCurrent(t, e)
		if snap.Score != 10 {
			t.Fatalf("score = %d, want 10", snap.Score)
		}
		if snap.CorrectAnswers != 1 || snap.TotalQuestions != 1 {
			t.Fatalf("counters = %d/%d, want 1/1", snap.CorrectAnswers, snap.TotalQuestions)
		}
	})

	t.Run("wrong answer advances question without scoring", func(t *testing.T) {
		e := newTestEngine(3)
		e.Start()

		q := *e.Snapshot().Question
		correct, snap := e.SubmitAnswer(q.ExpectedAnswer + 1)
		if correct {
			t.Fatal("wrong answer reported as correct")
		}
		if snap.Score != 0 || snap.CorrectAnswers != 0 {
			t.Fatalf("wrong answer changed score: %+v", snap)
		}
		if snap.TotalQuestions != 1 {
			t.Fatalf("totalQuestions = %d, want 1", snap.TotalQuestions)
		}
	})

	t.Run("level up on every tenth correct answer", func(t *testing.T) {
		e := newTestEngine(4)
		e.Start()

		var snap Snapshot
		for i := 0; i < 10; i++ {
			snap = answerCurrent(t, e)
		}
		if snap.Level != 2 {
			t.Fatalf("level after 10 correct = %d, want 2", snap.Level)
		}
		// 10 answers at level 1: 100 points.
		if snap.Score != 100 {
			t.Fatalf("score = %d, want 100", snap.Score)
		}

		for i := 0; i < 10; i++ {
			snap = answerCurrent(t, e)
		}
		if snap.Level != 3 {
			t.Fatalf("level after 20 correct = %d, want 3", snap.Level)
		}
		// Next 10 at level 2 add 200 more.
		if snap.Score != 300 {
			t.Fatalf("score = %d, want 300", snap.Score)
		}
	})

	t.Run("wrong answers do not interrupt the level counter", func(t *testing.T) {
		e := newTestEngine(5)
		e.Start()

		for i := 0; i < 9; i++ {
			answerCurrent(t, e)
		}
		q := e.Snapshot().Question
		e.SubmitAnswer(q.ExpectedAnswer + 1)

		snap := answerCurrent(t, e)
		if snap.Level != 2 {
			t.Fatalf("level = %d, want 2", snap.Level)
		}
		if snap.TotalQuestions != 11 {
			t.Fatalf("totalQuestions = %d, want 11", snap.TotalQuestions)
		}
	})
}

func TestEngineTimer(t *testing.T) {
	e := newTestEngine(6)
	e.Start()

	snap := e.Tick(59 * time.Second)
	if snap.State != StateRunning {
		t.Fatalf("state = %s, want %s", snap.State, StateRunning)
	}
	if snap.TimeRemaining != time.Second {
		t.Fatalf("timeRemaining = %s, want 1s", snap.TimeRemaining)
	}

	snap = e.Tick(time.Second)
	if snap.State != StateEnded {
		t.Fatalf("state = %s, want %s", snap.State, StateEnded)
	}
	if snap.TimeRemaining != 0 {
		t.Fatalf("timeRemaining = %s, want 0", snap.TimeRemaining)
	}
	if snap.Question != nil {
		t.Fatal("ended snapshot should not expose a question")
	}

	t.Run("submissions after the round end are rejected", func(t *testing.T) {
		correct, after := e.SubmitAnswer(42)
		if correct {
			t.Fatal("submission accepted after round end")
		}
		if after.TotalQuestions != 0 {
			t.Fatalf("totalQuestions = %d, want 0", after.TotalQuestions)
		}
	})

	t.Run("restart resets all counters", func(t *testing.T) {
		e.Start()
		answerCurrent(t, e)
		snap := e.Start()
		if snap.Score != 0 || snap.CorrectAnswers != 0 || snap.TotalQuestions != 0 || snap.Level != 1 {
			t.Fatalf("restart did not reset: %+v", snap)
		}
		if snap.TimeRemaining != 60*time.Second {
			t.Fatalf("timeRemaining = %s, want 60s", snap.TimeRemaining)
		}
	})
}

func TestEngineIdle(t *testing.T) {
	e := newTestEngine(7)

	snap := e.Tick(time.Second)
	if snap.State != StateIdle {
		t.Fatalf("tick moved idle engine to %s", snap.State)
	}

	correct, snap := e.SubmitAnswer(0)
	if correct || snap.TotalQuestions != 0 {
		t.Fatalf("idle engine accepted an answer: %+v", snap)
	}
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		name           string
		correct, total int
		want           float64
	}{
		{"twelve of fifteen", 12, 15, 80.00},
		{"one third", 1, 3, 33.33},
		{"perfect", 7, 7, 100},
		{"no questions", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Accuracy(tc.correct, tc.total); got != tc.want {
				t.Fatalf("Accuracy(%d, %d) = %v, want %v", tc.correct, tc.total, got, tc.want)
			}
		})
	}
}
