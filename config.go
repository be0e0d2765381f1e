package main

import (
	"encoding/json"
	"fmt"
	"os"

	"goc-audit-agent/tools"
)

// Config 애플리케이션 설정 구조체
type Config struct {
	GeminiAPIKey     string  `json:"gemini_api_key"`
	NotionAPIKey     string  `json:"notion_api_key,omitempty"` // 정책을 Notion에서 가져올 때만 설정
	DBPath           string  `json:"db_path"`
	PolicyPath       string  `json:"policy_path"`
	EmailsPath       string  `json:"emails_path"`
	TransactionsPath string  `json:"transactions_path"`
	ChatModel        string  `json:"chat_model"`
	EmbeddingModel   string  `json:"embedding_model"`
	MaxSteps         int     `json:"max_steps"`
	MinSimilarity    float32 `json:"min_similarity"`
	PolicyTopK       int     `json:"policy_top_k"`
	EmailTopK        int     `json:"email_top_k"`
}

// defaultConfig 최초 실행 시 생성되는 기본 설정
func defaultConfig() *Config {
	return &Config{
		DBPath:           "./audit-knowledge.db",
		PolicyPath:       "./data/politica_compliance.txt",
		EmailsPath:       "./data/emails.txt",
		TransactionsPath: "./data/transacoes_bancarias.csv",
		ChatModel:        "gemini-2.5-flash-lite",
		EmbeddingModel:   "text-embedding-004",
		MaxSteps:         10,
		MinSimilarity:    0.7,
		PolicyTopK:       tools.PolicyTopK,
		EmailTopK:        tools.EmailTopK,
	}
}

// LoadConfig config.json 파일에서 설정을 로드합니다
// GEMINI_API_KEY 환경변수가 있으면 파일의 키보다 우선합니다
func LoadConfig() (*Config, error) {
	configPath := "config.json"

	// 파일이 존재하지 않으면 기본 설정으로 생성
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := json.MarshalIndent(defaultConfig(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("설정 파일 생성 실패: %w", err)
		}

		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return nil, fmt.Errorf("설정 파일 쓰기 실패: %w", err)
		}

		return nil, fmt.Errorf("config.json 파일이 생성되었습니다. Gemini API Key를 설정해주세요")
	}

	// 파일 읽기
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("설정 파일 파싱 실패: %w", err)
	}

	// 환경변수가 있으면 우선 적용
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.GeminiAPIKey = key
	}

	// 필수 값 검증
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini_api_key가 설정되지 않았습니다 (config.json 또는 GEMINI_API_KEY 환경변수)")
	}

	// 기본값 채우기
	defaults := defaultConfig()
	if config.DBPath == "" {
		config.DBPath = defaults.DBPath
	}
	if config.PolicyPath == "" {
		config.PolicyPath = defaults.PolicyPath
	}
	if config.EmailsPath == "" {
		config.EmailsPath = defaults.EmailsPath
	}
	if config.TransactionsPath == "" {
		config.TransactionsPath = defaults.TransactionsPath
	}
	if config.ChatModel == "" {
		config.ChatModel = defaults.ChatModel
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = defaults.EmbeddingModel
	}
	if config.MaxSteps <= 0 {
		config.MaxSteps = defaults.MaxSteps
	}
	if config.MinSimilarity <= 0 {
		config.MinSimilarity = defaults.MinSimilarity
	}
	if config.PolicyTopK <= 0 {
		config.PolicyTopK = defaults.PolicyTopK
	}
	if config.EmailTopK <= 0 {
		config.EmailTopK = defaults.EmailTopK
	}

	return &config, nil
}
