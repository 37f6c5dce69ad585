package game

import (
	"time"

	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/util"
)

// State: 라운드 상태.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateEnded   State = "ended"
)

// Snapshot: 라운드의 현재 상태를 담는 읽기 전용 뷰.
type Snapshot struct {
	State          State         `json:"state"`
	Score          int           `json:"score"`
	Level          int           `json:"level"`
	CorrectAnswers int           `json:"correctAnswers"`
	TotalQuestions int           `json:"totalQuestions"`
	TimeRemaining  time.Duration `json:"timeRemaining"`
	Question       *Question     `json:"question,omitempty"`
}

// Engine: 단일 라운드의 상태 기계를 구현한다.
// Idle → (Start) → Running → (타이머 소진) → Ended → (Start) → Running …
//
// Engine 자체는 동기화하지 않는다. 호출자가 단일 고루틴에서 구동하거나
// 외부에서 직렬화해야 한다.
type Engine struct {
	generator *Generator

	state          State
	score          int
	level          int
	correctAnswers int
	totalQuestions int
	timeRemaining  time.Duration
	question       Question
}

// NewEngine: Idle 상태의 엔진을 만든다. generator가 nil이면 기본 생성기를 쓴다.
func NewEngine(generator *Generator) *Engine {
	if generator == nil {
		generator = NewGenerator()
	}
	return &Engine{generator: generator, state: StateIdle}
}

// Start: 라운드를 시작한다. Ended 상태에서 다시 호출하면 전체 카운터를
// 초기화하고 새 라운드를 연다.
func (e *Engine) Start() Snapshot {
	e.state = StateRunning
	e.score = 0
	e.level = constants.GameRules.StartLevel
	e.correctAnswers = 0
	e.totalQuestions = 0
	e.timeRemaining = constants.GameRules.RoundDuration
	e.question = e.generator.Generate(e.level)
	return e.Snapshot()
}

// Tick: 경과 시간만큼 타이머를 줄인다. 0에 도달하면 Ended로 전이한다.
// Running 상태가 아니면 아무것도 하지 않는다.
func (e *Engine) Tick(elapsed time.Duration) Snapshot {
	if e.state != StateRunning {
		return e.Snapshot()
	}

	e.timeRemaining -= elapsed
	if e.timeRemaining <= 0 {
		e.timeRemaining = 0
		e.state = StateEnded
	}
	return e.Snapshot()
}

// SubmitAnswer: 현재 문제에 대한 답을 채점한다.
// 정답이면 점수에 level*10을 더하고, 누적 정답 수가 10의 배수가 될 때마다
// 레벨을 올린다. 정답 여부와 무관하게 총 문제 수를 늘리고 다음 문제를 낸다.
// Running 상태가 아니면 false를 반환하고 상태를 바꾸지 않는다.
func (e *Engine) SubmitAnswer(answer int) (correct bool, snap Snapshot) {
	if e.state != StateRunning {
		return false, e.Snapshot()
	}

	e.totalQuestions++
	if answer == e.question.ExpectedAnswer {
		correct = true
		e.correctAnswers++
		e.score += e.level * constants.GameRules.PointsPerLevel
		if e.correctAnswers%constants.GameRules.AnswersPerLevel == 0 {
			e.level++
		}
	}

	e.question = e.generator.Generate(e.level)
	return correct, e.Snapshot()
}

// Snapshot: 현재 상태의 사본을 반환한다. Running일 때만 문제를 포함한다.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:          e.state,
		Score:          e.score,
		Level:          e.level,
		CorrectAnswers: e.correctAnswers,
		TotalQuestions: e.totalQuestions,
		TimeRemaining:  e.timeRemaining,
	}
	if e.state == StateRunning {
		q := e.question
		snap.Question = &q
	}
	return snap
}

// Accuracy: 정답률을 소수점 둘째 자리까지 반올림해 반환한다. total이 0이면 0.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return util.Round2(float64(correct) / float64(total) * 100)
}
