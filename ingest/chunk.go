package ingest

import "strings"

// piece 분할된 텍스트 조각
// sep은 원문에서 다음 조각과의 사이에 있던 구분자입니다
type piece struct {
	text string
	sep  string
}

// Chunk 텍스트를 지정된 크기(문자 단위)로 청킹합니다
// separators 우선순위에 따라 의미 단위로 나눈 뒤, size를 넘지 않도록
// 원래 구분자를 유지한 채 다시 합치고 overlap만큼 앞 청크의 끝부분을
// 다음 청크에 이어붙입니다
func Chunk(text string, size, overlap int, separators []string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len([]rune(text)) <= size {
		return []string{text}
	}

	pieces := split(text, size, separators, "")
	return merge(pieces, size, overlap)
}

// split 텍스트를 separators 순서대로 재귀 분할하여
// 각 조각이 size 이하가 되도록 만듭니다
// trailing은 이 텍스트 뒤에 오던 상위 레벨 구분자입니다
func split(text string, size int, separators []string, trailing string) []piece {
	if len([]rune(text)) <= size {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []piece{{text: text, sep: trailing}}
	}

	// 더 이상 쓸 구분자가 없으면 문자 단위로 강제 분할
	if len(separators) == 0 {
		return hardSplit(text, size, trailing)
	}

	parts := strings.Split(text, separators[0])
	var pieces []piece
	for i, part := range parts {
		sep := separators[0]
		if i == len(parts)-1 {
			sep = trailing
		}
		pieces = append(pieces, split(part, size, separators[1:], sep)...)
	}
	return pieces
}

// hardSplit 구분자 없이 rune 단위로 분할합니다
func hardSplit(text string, size int, trailing string) []piece {
	var pieces []piece
	runes := []rune(text)

	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		sep := ""
		if end == len(runes) {
			sep = trailing
		}
		pieces = append(pieces, piece{text: string(runes[i:end]), sep: sep})
	}

	return pieces
}

// merge 조각들을 size를 넘지 않는 범위에서 원래 구분자로 다시 합칩니다
// 청크 경계에서는 overlap 이하의 끝 조각들을 다음 청크 앞에 붙여
// 문맥이 끊기지 않도록 합니다
func merge(pieces []piece, size, overlap int) []string {
	var chunks []string
	var current []piece
	currentLen := 0
	hasNew := false

	render := func() string {
		var b strings.Builder
		for i, p := range current {
			b.WriteString(p.text)
			if i < len(current)-1 {
				b.WriteString(p.sep)
			}
		}
		return strings.TrimSpace(b.String())
	}

	flush := func() {
		// carry만 남아있으면 이미 앞 청크로 내보낸 내용이므로 건너뜀
		if len(current) == 0 || !hasNew {
			return
		}
		if chunk := render(); chunk != "" {
			chunks = append(chunks, chunk)
		}

		// overlap만큼 끝 조각을 남겨서 다음 청크의 시작으로 사용
		var carry []piece
		carryLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			pieceLen := len([]rune(current[i].text))
			if len(carry) > 0 {
				pieceLen += len([]rune(current[i].sep))
			}
			if carryLen+pieceLen > overlap {
				break
			}
			carry = append([]piece{current[i]}, carry...)
			carryLen += pieceLen
		}
		current = carry
		currentLen = carryLen
		hasNew = false
	}

	// appendLen 조각을 현재 청크에 붙일 때 늘어나는 길이 (구분자 포함)
	appendLen := func(p piece) int {
		n := len([]rune(p.text))
		if len(current) > 0 {
			n += len([]rune(current[len(current)-1].sep))
		}
		return n
	}

	for _, p := range pieces {
		for currentLen > 0 && currentLen+appendLen(p) > size {
			if hasNew {
				flush()
				continue
			}
			// carry에 더해도 size를 넘으면 carry 앞 조각부터 덜어냄
			head := current[0]
			current = current[1:]
			currentLen -= len([]rune(head.text))
			if len(current) > 0 {
				currentLen -= len([]rune(head.sep))
			}
		}
		currentLen += appendLen(p)
		current = append(current, p)
		hasNew = true
	}
	flush()

	return chunks
}
