package rank

import (
	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
)

// SourceAffinity 对偏好来源的内容返回 1+w，其余返回 1。
type SourceAffinity struct {
	Weight    float64
	preferred map[string]struct{}
}

func NewSourceAffinity(weight float64, preferred []string) *SourceAffinity {
	set := make(map[string]struct{}, len(preferred))
	for _, s := range preferred {
		set[s] = struct{}{}
	}
	return &SourceAffinity{Weight: weight, preferred: set}
}

func (s *SourceAffinity) Type() algorithm.BoosterType {
	return algorithm.BoosterSourceAffinity
}

func (s *SourceAffinity) Boost(_ *core.RankContext, item *core.ContentItem) float64 {
	if _, ok := s.preferred[item.Source]; ok {
		return 1.0 + s.Weight
	}
	return 1.0
}
