package search

import (
	"sort"

	"lyrics-api/pkg/match"
)

// Rank 为每个结果设置 Match 并排序：等级降序，标题相似度降序，其余保持输入顺序。
// 返回新切片，不修改入参
func Rank(q match.Query, results []Result, m match.Matcher) []Result {
	type scored struct {
		result Result
		eval   match.Evaluation
	}

	items := make([]scored, len(results))
	for i, r := range results {
		ev := m.Evaluate(q, r.Track())
		t := ev.Type
		r.Match = &t
		items[i] = scored{result: r, eval: ev}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].eval, items[j].eval
		if a.Type != b.Type {
			return a.Type > b.Type
		}
		return a.TitleSimilarity > b.TitleSimilarity
	})

	ranked := make([]Result, len(items))
	for i, it := range items {
		ranked[i] = it.result
	}
	return ranked
}
