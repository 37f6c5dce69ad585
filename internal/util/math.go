package util

import "math"

// Max: 두 정수 중 더 큰 값을 반환합니다.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min: 두 정수 중 더 작은 값을 반환합니다.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Clamp: 값을 [lo, hi] 범위로 제한한다.
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round2: 소수점 둘째 자리까지 반올림한다. (정확도 퍼센트 표기용)
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
