package tools

import (
	"context"
	"fmt"
	"strings"
)

// Tool 에이전트가 호출할 수 있는 도구 인터페이스
// 자유 텍스트 입력을 받아 텍스트 결과를 돌려줍니다
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
}

// Registry 이름으로 도구를 조회하는 레지스트리
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry 도구 목록으로 레지스트리를 생성합니다
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		if _, exists := r.tools[t.Name()]; exists {
			continue
		}
		r.order = append(r.order, t.Name())
		r.tools[t.Name()] = t
	}
	return r
}

// Get 이름으로 도구를 조회합니다
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[strings.TrimSpace(name)]
	return t, ok
}

// Names 등록 순서대로 도구 이름 목록을 반환합니다
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Describe 프롬프트에 넣을 도구 설명 목록을 렌더링합니다
func (r *Registry) Describe() string {
	var b strings.Builder
	for _, name := range r.order {
		fmt.Fprintf(&b, "- %s: %s\n", name, r.tools[name].Description())
	}
	return strings.TrimRight(b.String(), "\n")
}
