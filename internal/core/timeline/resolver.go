package timeline

import "github.com/rainlabel/rainlabel/internal/core/annotation"

const (
	// MaxActiveObjects 单帧同时展示的物体上限，超出部分静默丢弃
	MaxActiveObjects = 6
	// MaxActiveTexts 单帧同时展示的屏幕文字上限
	MaxActiveTexts = 8
)

// ActiveShot 当前命中的镜头及其文档下标
type ActiveShot struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SpeechView 语音展示状态
// Available=false 表示文档没有语音轨道；
// Available=true 且 Snippet 为空表示附近没有字幕，两者是不同的可观测状态
type SpeechView struct {
	Available bool              `json:"available"`
	Snippet   string            `json:"snippet"`
	SnippetEN string            `json:"snippet_en,omitempty"`
	Words     []annotation.Word `json:"words,omitempty"`
}

// ActiveSet 某一时刻各轨道的命中子集
// 每个轨道保持文档原始顺序（稳定过滤），时间推进时列表不抖动
type ActiveSet struct {
	Time     float64 `json:"time"`
	Duration float64 `json:"duration"`

	Labels   []annotation.Label        `json:"labels"`
	Objects  []ObjectHit               `json:"objects"`
	Texts    []annotation.Text         `json:"texts"`
	Logos    []annotation.Logo         `json:"logos"`
	Shot     *ActiveShot               `json:"shot,omitempty"`
	Speech   SpeechView                `json:"speech"`
	Explicit *annotation.ExplicitFrame `json:"explicit,omitempty"`
}

// Resolver 活跃集求值器
// (index, t, duration) 的纯函数，仅缓存最近一次求值结果；
// 相同入参重复求值返回同一个结果对象，保证逐字节一致
type Resolver struct {
	idx  *Index
	last *ActiveSet
}

func NewResolver(idx *Index) *Resolver {
	if idx == nil {
		idx = NewIndex(nil)
	}
	return &Resolver{idx: idx}
}

func (r *Resolver) Index() *Index { return r.idx }

// Resolve 计算 t 时刻的活跃集
func (r *Resolver) Resolve(t, duration float64) *ActiveSet {
	if r.last != nil && r.last.Time == t && r.last.Duration == duration {
		return r.last
	}

	out := ActiveSet{
		Time:     t,
		Duration: duration,
		Labels:   r.idx.ActiveLabels(t),
		Objects:  truncate(r.idx.ActiveObjects(t), MaxActiveObjects),
		Texts:    truncate(r.idx.ActiveTexts(t), MaxActiveTexts),
		Logos:    r.idx.ActiveLogos(t),
	}

	if shot, i, ok := r.idx.ShotAt(t, duration); ok {
		out.Shot = &ActiveShot{Index: i, Start: shot.Start, End: shot.End}
	}
	if frame, ok := r.idx.ExplicitAt(t); ok {
		out.Explicit = &frame
	}
	if r.idx.HasSpeech() {
		snip := r.idx.SpeechAt(t)
		out.Speech = SpeechView{
			Available: true,
			Snippet:   snip.Text,
			SnippetEN: snip.TextEN,
			Words:     snip.Words,
		}
	}

	r.last = &out
	return r.last
}

func truncate[T any](items []T, max int) []T {
	if len(items) > max {
		return items[:max]
	}
	return items
}
