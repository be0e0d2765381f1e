package notion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"goc-audit-agent/models"

	"github.com/jomei/notionapi"
)

const rateLimitDelay = 350 * time.Millisecond

// Loader Notion API를 사용하여 정책 페이지를 로드하는 구조체
// 컴플라이언스 정책이 Notion 워크스페이스에 있는 경우 사용합니다
type Loader struct {
	client *notionapi.Client
}

// NewLoader 새로운 Notion 로더를 생성합니다
func NewLoader(apiKey string) *Loader {
	return &Loader{
		client: notionapi.NewClient(notionapi.Token(apiKey)),
	}
}

// FetchAllPages 접근 가능한 모든 Notion 페이지를 가져와서
// 페이지당 하나의 Document(청킹 전 전체 본문)로 변환합니다
func (l *Loader) FetchAllPages(ctx context.Context) ([]*models.Document, error) {
	pages, err := l.searchAllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("페이지 검색 실패: %w", err)
	}

	fmt.Printf("📄 총 %d개의 Notion 페이지를 찾았습니다.\n", len(pages))

	var documents []*models.Document
	for i, page := range pages {
		title := getPageTitle(page)
		fmt.Printf("처리 중: %d/%d - %s\n", i+1, len(pages), title)

		pageID := string(page.ID)
		content, err := l.fetchPageContent(ctx, notionapi.BlockID(pageID))
		if err != nil {
			fmt.Printf("⚠️  페이지 %s 처리 실패: %v\n", pageID, err)
			continue
		}

		// 빈 콘텐츠 또는 너무 짧은 콘텐츠는 건너뛰기
		if len([]rune(content)) < 10 {
			fmt.Printf("  ⚠️  콘텐츠가 너무 짧아 건너뜁니다\n")
			continue
		}

		documents = append(documents, &models.Document{
			ID:       pageID,
			Title:    title,
			Content:  content,
			SourceID: pageID,
			Meta: map[string]string{
				"source":    "notion",
				"url":       getPageURL(page),
				"created":   page.CreatedTime.Format(time.RFC3339),
				"last_edit": page.LastEditedTime.Format(time.RFC3339),
			},
		})

		// Rate limit 방지
		time.Sleep(rateLimitDelay)
	}

	return documents, nil
}

// searchAllPages Search API를 사용하여 모든 페이지를 검색합니다
func (l *Loader) searchAllPages(ctx context.Context) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor string

	for {
		req := &notionapi.SearchRequest{
			Filter: notionapi.SearchFilter{
				Value:    "page",
				Property: "object",
			},
		}

		if cursor != "" {
			req.StartCursor = notionapi.Cursor(cursor)
		}

		resp, err := l.client.Search.Do(ctx, req)
		if err != nil {
			return nil, err
		}

		for _, obj := range resp.Results {
			if obj.GetObject() == notionapi.ObjectTypePage {
				if pagePtr, ok := obj.(*notionapi.Page); ok {
					allPages = append(allPages, *pagePtr)
				}
			}
		}

		if !resp.HasMore {
			break
		}

		cursor = string(resp.NextCursor)
		time.Sleep(rateLimitDelay)
	}

	return allPages, nil
}

// fetchPageContent 페이지의 모든 블록을 재귀적으로 가져와서 텍스트로 변환합니다
func (l *Loader) fetchPageContent(ctx context.Context, pageID notionapi.BlockID) (string, error) {
	var contentParts []string

	if err := l.fetchBlocksRecursive(ctx, pageID, &contentParts, 0); err != nil {
		return "", err
	}

	return strings.Join(contentParts, "\n\n"), nil
}

// fetchBlocksRecursive 블록을 재귀적으로 가져와서 텍스트를 추출합니다
func (l *Loader) fetchBlocksRecursive(ctx context.Context, blockID notionapi.BlockID, contentParts *[]string, depth int) error {
	// 최대 깊이 제한 (무한 재귀 방지)
	if depth > 20 {
		return nil
	}

	blocks, err := l.client.Block.GetChildren(ctx, blockID, &notionapi.Pagination{
		PageSize: 100,
	})
	if err != nil {
		return err
	}

	for _, block := range blocks.Results {
		// 하위 페이지나 데이터베이스는 링크만 표시하고 재귀하지 않음
		switch block.(type) {
		case *notionapi.ChildPageBlock, *notionapi.ChildDatabaseBlock:
			if text := extractTextFromBlock(block); text != "" {
				*contentParts = append(*contentParts, text)
			}
			continue
		}

		if text := extractTextFromBlock(block); text != "" {
			*contentParts = append(*contentParts, text)
		}

		// 자식 블록이 있으면 재귀 호출
		if block.GetHasChildren() {
			if err := l.fetchBlocksRecursive(ctx, block.GetID(), contentParts, depth+1); err != nil {
				return err
			}
		}
	}

	time.Sleep(rateLimitDelay)
	return nil
}

// extractTextFromBlock 블록에서 텍스트를 추출합니다
func extractTextFromBlock(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return extractRichText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return "# " + extractRichText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return "## " + extractRichText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return "### " + extractRichText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return "- " + extractRichText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return "1. " + extractRichText(b.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		mark := " "
		if b.ToDo.Checked {
			mark = "x"
		}
		return fmt.Sprintf("- [%s] %s", mark, extractRichText(b.ToDo.RichText))
	case *notionapi.CodeBlock:
		return "```\n" + extractRichText(b.Code.RichText) + "\n```"
	case *notionapi.QuoteBlock:
		return "> " + extractRichText(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		return extractRichText(b.Callout.RichText)
	case *notionapi.ToggleBlock:
		return extractRichText(b.Toggle.RichText)
	case *notionapi.ChildPageBlock:
		return fmt.Sprintf("[페이지 링크: %s]", b.ChildPage.Title)
	case *notionapi.ChildDatabaseBlock:
		return fmt.Sprintf("[데이터베이스 링크: %s]", b.ChildDatabase.Title)
	case *notionapi.TableRowBlock:
		var cells []string
		for _, cell := range b.TableRow.Cells {
			if cellText := extractRichText(cell); cellText != "" {
				cells = append(cells, cellText)
			}
		}
		if len(cells) > 0 {
			return "| " + strings.Join(cells, " | ") + " |"
		}
		return ""
	default:
		// 텍스트가 없는 블록 타입은 무시
		return ""
	}
}

// extractRichText RichText 배열에서 텍스트를 추출합니다
func extractRichText(richText []notionapi.RichText) string {
	var parts []string
	for _, rt := range richText {
		parts = append(parts, rt.PlainText)
	}
	return strings.Join(parts, "")
}

// getPageTitle 페이지에서 제목을 추출합니다
func getPageTitle(page notionapi.Page) string {
	props := page.Properties
	if titleProp, ok := props["title"]; ok {
		if title, ok := titleProp.(*notionapi.TitleProperty); ok {
			return extractRichText(title.Title)
		}
	}

	// Title 속성이 없으면 Name 속성 확인
	if nameProp, ok := props["Name"]; ok {
		if title, ok := nameProp.(*notionapi.TitleProperty); ok {
			return extractRichText(title.Title)
		}
	}

	return "제목 없음"
}

// getPageURL 페이지 URL을 생성합니다
func getPageURL(page notionapi.Page) string {
	return fmt.Sprintf("https://www.notion.so/%s", strings.ReplaceAll(string(page.ID), "-", ""))
}
