package agent

import (
	"context"
	"fmt"
	"strings"

	"goc-audit-agent/models"
	"goc-audit-agent/tools"
)

// DefaultMaxSteps 질문 하나당 허용하는 최대 추론 사이클 수
const DefaultMaxSteps = 10

// Result 에이전트 실행 결과
// Trace는 답변과 함께 표시용으로만 반환되며 이후 보관되지 않습니다
type Result struct {
	Answer  string
	Trace   models.Trace
	Partial bool // 스텝 예산 소진으로 강제 종료된 경우 true
}

// Agent ReAct 방식의 감사 오케스트레이션 루프
// 매 사이클마다 모델에게 전체 기록을 주고 도구 호출 또는 최종 답변을 받습니다
type Agent struct {
	gen      Generator
	registry *tools.Registry
	maxSteps int
}

// NewAgent 새로운 에이전트를 생성합니다
func NewAgent(gen Generator, registry *tools.Registry, maxSteps int) *Agent {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Agent{
		gen:      gen,
		registry: registry,
		maxSteps: maxSteps,
	}
}

// Ask 질문 하나를 처리합니다
// 도구 호출은 maxSteps회를 넘지 않으며, 예산 소진 시 지금까지의 기록으로
// 최선의 답변을 강제 생성합니다
func (a *Agent) Ask(ctx context.Context, question string) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, fmt.Errorf("질문이 비어있습니다")
	}

	var trace models.Trace

	for step := 0; step < a.maxSteps; step++ {
		output, err := a.gen.Generate(ctx, buildPrompt(a.registry, question, trace))
		if err != nil {
			return Result{}, fmt.Errorf("모델 호출 실패: %w", err)
		}

		decision, err := ParseDecision(output)
		if err != nil {
			// 파싱 실패: 형식 안내를 관찰로 넣고 다음 사이클에서 재시도
			trace = append(trace, models.TraceStep{
				Thought:     strings.TrimSpace(output),
				Observation: notFoundReminder,
			})
			continue
		}

		if decision.IsFinal {
			return Result{Answer: decision.FinalAnswer, Trace: trace}, nil
		}

		trace = append(trace, models.TraceStep{
			Thought:     decision.Thought,
			Action:      decision.Action,
			ActionInput: decision.ActionInput,
			Observation: a.dispatch(ctx, decision),
		})
	}

	// 스텝 예산 소진: 강제 종료
	answer, err := a.gen.Generate(ctx, buildFinalizePrompt(question, trace))
	if err != nil {
		return Result{}, fmt.Errorf("강제 종료 답변 생성 실패: %w", err)
	}

	return Result{Answer: strings.TrimSpace(answer), Trace: trace, Partial: true}, nil
}

// dispatch 도구를 실행하고 관찰 결과 텍스트를 반환합니다
// 도구 이름 오류와 실행 에러는 루프를 중단하지 않고 관찰로 모델에 전달합니다
func (a *Agent) dispatch(ctx context.Context, decision Decision) string {
	tool, ok := a.registry.Get(decision.Action)
	if !ok {
		return fmt.Sprintf("알 수 없는 도구: %s. 사용 가능한 도구: %s",
			decision.Action, strings.Join(a.registry.Names(), ", "))
	}

	observation, err := tool.Call(ctx, decision.ActionInput)
	if err != nil {
		return fmt.Sprintf("도구 실행 실패: %v", err)
	}
	return observation
}
