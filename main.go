package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"goc-audit-agent/agent"
	"goc-audit-agent/db"
	"goc-audit-agent/embedding"
	"goc-audit-agent/ingest"
	"goc-audit-agent/notion"
	"goc-audit-agent/tools"
	"goc-audit-agent/ui"
)

func main() {
	// 플래그 파싱
	reload := flag.Bool("reload", false, "정책/이메일 데이터를 새로 적재합니다")
	flag.Parse()

	ctx := context.Background()

	// 설정 로드
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("설정 로드 실패: %v", err)
	}

	// DB 초기화
	store, err := db.NewStore(config.DBPath)
	if err != nil {
		log.Fatalf("DB 초기화 실패: %v", err)
	}
	defer store.Close()
	store.MinSimilarity = config.MinSimilarity

	// 임베딩 생성기 초기화
	embedder, err := embedding.NewEmbedder(ctx, config.GeminiAPIKey, config.EmbeddingModel)
	if err != nil {
		log.Fatalf("임베딩 생성기 초기화 실패: %v", err)
	}
	defer embedder.Close()

	// 인덱스 존재 여부 및 문서 개수 확인
	dbExists := db.Exists(config.DBPath)
	policyCount, _ := store.Count(ctx, db.CollectionCompliance)
	emailCount, _ := store.Count(ctx, db.CollectionEmails)
	empty := !dbExists || (policyCount == 0 && emailCount == 0)

	// 리로드 모드 또는 인덱스가 비어있는 경우
	if *reload || empty {
		if !*reload && empty {
			fmt.Println("⚠️  인덱스가 없거나 비어있습니다. --reload 옵션으로 데이터를 적재해주세요.")
			os.Exit(1)
		}

		if err := runIngest(ctx, config, store, embedder); err != nil {
			log.Fatalf("데이터 적재 실패: %v", err)
		}
	} else {
		fmt.Printf("⚡ 기존 로컬 인덱스를 로드했습니다. (정책 %d개 / 이메일 %d개 청크)\n\n", policyCount, emailCount)
	}

	// 거래 내역 CSV 로드
	transactions, err := ingest.LoadTransactions(config.TransactionsPath)
	if err != nil {
		log.Fatalf("거래 내역 로드 실패: %v\n   %s 파일을 확인해주세요.", err, config.TransactionsPath)
	}
	fmt.Printf("✅ 거래 내역 로드 완료: %d건\n", len(transactions))

	// 도구 레지스트리 구성
	registry := tools.NewRegistry(
		tools.NewPolicyTool(store, embedder, config.PolicyTopK),
		tools.NewEmailTool(store, embedder, config.EmailTopK),
		tools.NewTransactionTool(transactions),
	)

	// 추론 모델 및 에이전트 초기화
	gen, err := agent.NewGemini(ctx, config.GeminiAPIKey, config.ChatModel)
	if err != nil {
		log.Fatalf("Gemini 클라이언트 생성 실패: %v", err)
	}
	defer gen.Close()

	auditor := agent.NewAgent(gen, registry, config.MaxSteps)

	// TUI 실행
	fmt.Println("감사 모드로 진입합니다...")
	if err := ui.Run(auditor); err != nil {
		log.Fatalf("TUI 실행 실패: %v", err)
	}
}

// runIngest 정책 문서와 이메일 코퍼스를 청킹/임베딩하여 적재합니다
func runIngest(ctx context.Context, config *Config, store *db.Store, embedder *embedding.Embedder) error {
	ingestor := ingest.NewIngestor(store, embedder)

	// 정책 문서 적재 (Notion 키가 설정되어 있으면 Notion에서 가져옴)
	if config.NotionAPIKey != "" {
		fmt.Println("🔄 Notion에서 정책 페이지를 가져오는 중...")
		loader := notion.NewLoader(config.NotionAPIKey)
		pages, err := loader.FetchAllPages(ctx)
		if err != nil {
			return fmt.Errorf("Notion 페이지 가져오기 실패: %w", err)
		}
		if len(pages) == 0 {
			return fmt.Errorf("가져온 페이지가 없습니다")
		}

		fmt.Println("🧠 정책 임베딩 생성 중 (Gemini)...")
		count, err := ingestor.IngestPolicyPages(ctx, pages)
		if err != nil {
			return fmt.Errorf("정책 적재 실패: %w", err)
		}
		fmt.Printf("✅ 정책 인덱스 생성 완료! (%d개 청크)\n\n", count)
	} else {
		fmt.Printf("📄 정책 문서 적재 중: %s\n", config.PolicyPath)
		count, err := ingestor.IngestPolicyFile(ctx, config.PolicyPath)
		if err != nil {
			return fmt.Errorf("정책 적재 실패: %w", err)
		}
		fmt.Printf("✅ 정책 인덱스 생성 완료! (%d개 청크)\n\n", count)
	}

	// 이메일 코퍼스 적재
	fmt.Printf("📧 이메일 코퍼스 적재 중: %s\n", config.EmailsPath)
	count, err := ingestor.IngestEmailsFile(ctx, config.EmailsPath)
	if err != nil {
		return fmt.Errorf("이메일 적재 실패: %w", err)
	}
	fmt.Printf("✅ 이메일 인덱스 생성 완료! (%d개 청크)\n\n", count)

	return nil
}
