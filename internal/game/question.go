// Package game: 수학 스프린트 게임의 상태 머신과 문제 생성기.
// 웹 클라이언트가 동일한 규칙을 미러링하며, 서버는 제출 검증과
// 연습용 문제 생성에 이 패키지를 그대로 사용한다.
package game

import "fmt"

// Operator: 산술 연산자
type Operator string

// OpAdd 등: 지원 연산자 상수
const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
)

// Question: 생성된 산술 문제 하나. 평가 직후 폐기되며 절대 저장되지 않는다.
type Question struct {
	Operand1       int      `json:"operand1"`
	Operand2       int      `json:"operand2"`
	Operator       Operator `json:"operator"`
	ExpectedAnswer int      `json:"-"`
}

// Prompt: 화면 표시용 문자열을 반환한다. (예: "12 × 4")
func (q Question) Prompt() string {
	symbol := string(q.Operator)
	switch q.Operator {
	case OpMul:
		symbol = "×"
	case OpDiv:
		symbol = "÷"
	}
	return fmt.Sprintf("%d %s %d", q.Operand1, symbol, q.Operand2)
}
