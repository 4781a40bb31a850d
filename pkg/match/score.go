package match

const (
	DefaultTitleThreshold      = 0.8
	DefaultArtistThreshold     = 0.6
	DefaultDurationToleranceMs = 3000
)

// Matcher 匹配阈值。零值字段使用默认值
type Matcher struct {
	TitleThreshold      float64
	ArtistThreshold     float64
	DurationToleranceMs int64
}

// DefaultMatcher 返回默认阈值
func DefaultMatcher() Matcher {
	return Matcher{
		TitleThreshold:      DefaultTitleThreshold,
		ArtistThreshold:     DefaultArtistThreshold,
		DurationToleranceMs: DefaultDurationToleranceMs,
	}
}

func (m Matcher) withDefaults() Matcher {
	if m.TitleThreshold <= 0 {
		m.TitleThreshold = DefaultTitleThreshold
	}
	if m.ArtistThreshold <= 0 {
		m.ArtistThreshold = DefaultArtistThreshold
	}
	if m.DurationToleranceMs <= 0 {
		m.DurationToleranceMs = DefaultDurationToleranceMs
	}
	return m
}

// Evaluation 一次评分的结果，TitleSimilarity 用于同级排序
type Evaluation struct {
	Type            Type
	TitleSimilarity float64
}

// Evaluate 对候选曲目评分
func (m Matcher) Evaluate(q Query, c Track) Evaluation {
	m = m.withDefaults()

	qt, ct := Normalize(q.Title), Normalize(c.Title)
	if qt == "" || ct == "" {
		return Evaluation{Type: None}
	}
	titleSim := similarity(qt, ct)

	artistEqual, artistSim := false, 0.0
	for _, qa := range q.Artists {
		qa = Normalize(qa)
		if qa == "" {
			continue
		}
		for _, ca := range c.Artists {
			ca = Normalize(ca)
			if ca == "" {
				continue
			}
			if qa == ca {
				artistEqual = true
			}
			artistSim = max(artistSim, similarity(qa, ca))
		}
	}

	var t Type
	switch {
	case qt == ct && artistEqual:
		t = Exact
	case titleSim >= m.TitleThreshold && artistSim >= m.ArtistThreshold:
		t = FuzzyTitleArtist
	case titleSim >= m.TitleThreshold:
		t = FuzzyTitleOnly
	default:
		t = None
	}

	// 时长只约束标题加歌手的模糊匹配
	if t == FuzzyTitleArtist && q.DurationMs > 0 && c.DurationMs > 0 && abs(q.DurationMs-c.DurationMs) > m.DurationToleranceMs {
		t = t.downgrade()
	}
	return Evaluation{Type: t, TitleSimilarity: titleSim}
}

// Score 只返回匹配等级
func (m Matcher) Score(q Query, c Track) Type {
	return m.Evaluate(q, c).Type
}

// Evaluate 使用默认阈值评分
func Evaluate(q Query, c Track) Evaluation {
	return DefaultMatcher().Evaluate(q, c)
}

// Score 使用默认阈值评分
func Score(q Query, c Track) Type {
	return DefaultMatcher().Score(q, c)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
