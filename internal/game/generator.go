package game

import (
	"math/rand"
	"time"

	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/util"
)

// Generator: 레벨 밴드별 규칙에 따라 산술 문제를 생성한다.
// 밴드 규칙:
//   - 레벨 1~10:  덧셈/뺄셈, 피연산자 스케일 level*15 (뺄셈은 음수 결과 금지)
//   - 레벨 11~30: 곱셈/나눗셈, 스케일 level-5 (1 미만으로 내려가지 않게 클램핑)
//   - 레벨 31~:   네 연산자 전부, 덧셈/뺄셈은 level*25, 곱셈/나눗셈은 level
//
// 나눗셈은 항상 answer*divisor 로 역산해 나머지 없는 정수 나눗셈을 보장한다.
type Generator struct {
	rand *rand.Rand
}

// NewGenerator: 시간 기반 시드로 생성기를 만든다.
func NewGenerator() *Generator {
	return NewGeneratorWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGeneratorWithRand: 주어진 난수원으로 생성기를 만든다. (테스트용 결정적 시드 주입)
func NewGeneratorWithRand(r *rand.Rand) *Generator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rand: r}
}

// Generate: 주어진 레벨에 맞는 문제를 하나 생성한다. 레벨은 1 미만이면 1로 취급한다.
func (g *Generator) Generate(level int) Question {
	if level < 1 {
		level = 1
	}

	switch {
	case level < constants.GameRules.TierTwoMinLevel:
		return g.generateAddSub(level * constants.GameRules.AddSubScale)
	case level < constants.GameRules.TierThreeLevel:
		return g.generateMulDiv(mulDivScale(level))
	default:
		if g.rand.Intn(2) == 0 {
			return g.generateAddSub(level * constants.GameRules.HighAddSubScale)
		}
		return g.generateMulDiv(util.Max(level, 1))
	}
}

// generateAddSub: [1, scale] 범위 피연산자의 덧셈/뺄셈 문제를 만든다.
func (g *Generator) generateAddSub(scale int) Question {
	a := g.operand(scale)
	b := g.operand(scale)

	if g.rand.Intn(2) == 0 {
		return Question{Operand1: a, Operand2: b, Operator: OpAdd, ExpectedAnswer: a + b}
	}

	// 뺄셈은 결과가 음수가 되지 않도록 큰 값을 앞에 둔다.
	if b > a {
		a, b = b, a
	}
	return Question{Operand1: a, Operand2: b, Operator: OpSub, ExpectedAnswer: a - b}
}

// generateMulDiv: [1, scale] 범위 인수의 곱셈/나눗셈 문제를 만든다.
func (g *Generator) generateMulDiv(scale int) Question {
	a := g.operand(scale)
	b := g.operand(scale)

	if g.rand.Intn(2) == 0 {
		return Question{Operand1: a, Operand2: b, Operator: OpMul, ExpectedAnswer: a * b}
	}

	// 나눗셈: 몫(a)과 제수(b)를 먼저 뽑고 피제수를 역산한다.
	return Question{Operand1: a * b, Operand2: b, Operator: OpDiv, ExpectedAnswer: a}
}

// operand: [1, scale] 범위의 난수를 반환한다. scale이 1 미만이면 1로 클램핑한다.
func (g *Generator) operand(scale int) int {
	if scale < 1 {
		scale = 1
	}
	return g.rand.Intn(scale) + 1
}

// mulDivScale: 밴드2 스케일 (level - 5). 밴드 경계 아래로 내려가는 입력을
// 방어하기 위해 최소 1을 보장한다.
func mulDivScale(level int) int {
	return util.Max(level-constants.GameRules.MulDivLevelShift, 1)
}
