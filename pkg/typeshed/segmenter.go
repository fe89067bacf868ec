package typeshed

import (
	"strings"

	"github.com/dghubble/trie"
)

var dottedPathTrieConfig = &trie.PathTrieConfig{
	Segmenter: dottedSegmenter,
}

// dottedSegmenter segments dotted module names. For example, "a.b.c" -> ("a",
// 1), (".b", 3), (".c", -1) in successive calls. It does not allocate any heap
// memory.
func dottedSegmenter(path string, start int) (segment string, next int) {
	if len(path) == 0 || start < 0 || start > len(path)-1 {
		return "", -1
	}
	end := strings.IndexRune(path[start+1:], '.') // next '.' after 0th rune
	if end == -1 {
		return path[start:], -1
	}
	return path[start : start+end+1], start + end + 1
}
