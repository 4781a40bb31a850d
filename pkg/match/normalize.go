package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize 统一比较用的文本形式：NFKC、全半角折叠、大小写折叠，连续空白合并为一个空格
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = width.Fold.String(s)
	// Caser 有状态，不能在 goroutine 间共享
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Similarity 返回归一化后两个字符串的相似度，取值 [0, 1]
func Similarity(a, b string) float64 {
	return similarity(Normalize(a), Normalize(b))
}

// similarity 要求参数已经归一化
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	d := levenshtein.ComputeDistance(a, b)
	return float64(longest-d) / float64(longest)
}
