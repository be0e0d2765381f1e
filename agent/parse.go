package agent

import (
	"fmt"
	"strings"
)

// Decision 모델 출력 한 번을 파싱한 결과
// 최종 답변이거나, 다음에 실행할 도구 호출 중 하나입니다
type Decision struct {
	Thought     string
	Action      string
	ActionInput string
	FinalAnswer string
	IsFinal     bool
}

// ReAct 형식 키워드
const (
	thoughtPrefix     = "Thought:"
	actionPrefix      = "Action:"
	actionInputPrefix = "Action Input:"
	finalAnswerPrefix = "Final Answer:"
)

// ParseDecision 모델의 ReAct 형식 출력을 파싱합니다
// Final Answer도 Action도 없으면 에러를 반환합니다 (호출 측에서 형식 안내 후 재시도)
func ParseDecision(output string) (Decision, error) {
	var d Decision
	var section string // 현재 수집 중인 필드
	var buf []string

	store := func() {
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		switch section {
		case thoughtPrefix:
			d.Thought = text
		case actionPrefix:
			d.Action = firstLine(text)
		case actionInputPrefix:
			d.ActionInput = text
		case finalAnswerPrefix:
			d.FinalAnswer = text
		}
		buf = nil
	}

	for _, line := range strings.Split(output, "\n") {
		// Final Answer 이후는 전부 답변 본문으로 취급
		if d.IsFinal {
			buf = append(buf, line)
			continue
		}

		prefix, rest := matchPrefix(line)
		if prefix == "" {
			buf = append(buf, line)
			continue
		}

		store()
		section = prefix
		buf = []string{rest}

		if prefix == finalAnswerPrefix {
			d.IsFinal = true
		}
	}
	store()

	if d.IsFinal {
		return d, nil
	}

	if d.Action == "" {
		return Decision{}, fmt.Errorf("출력에서 Action 또는 Final Answer를 찾지 못했습니다")
	}

	return d, nil
}

// matchPrefix 줄이 ReAct 키워드로 시작하는지 확인하고
// 키워드와 나머지 텍스트를 반환합니다 (마크다운 장식 허용)
func matchPrefix(line string) (string, string) {
	trimmed := strings.TrimLeft(strings.TrimSpace(line), "*#> ")
	trimmed = strings.TrimSpace(trimmed)

	// Action Input을 Action보다 먼저 확인해야 함
	for _, prefix := range []string{finalAnswerPrefix, actionInputPrefix, actionPrefix, thoughtPrefix} {
		if strings.HasPrefix(trimmed, prefix) {
			rest := strings.TrimPrefix(trimmed, prefix)
			rest = strings.TrimSpace(strings.TrimLeft(rest, "* "))
			return prefix, rest
		}
	}
	return "", ""
}

// firstLine 여러 줄 텍스트의 첫 줄만 반환합니다 (도구 이름 정제용)
func firstLine(text string) string {
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[:idx]
	}
	return strings.Trim(strings.TrimSpace(text), "`*\"")
}
