package timeline

import (
	"math"
	"sort"
	"strings"

	"github.com/rainlabel/rainlabel/internal/core/annotation"
)

const (
	// ObjectFrameTolerance 物体帧的命中窗口，±0.5 秒，边界包含
	ObjectFrameTolerance = 0.5
	// SpeechWindow 语音片段的对称查询窗口，±5 秒
	SpeechWindow = 5.0
)

// Index 单个标注文档的时间查询索引
// 文档加载后不可变，索引构建一次即可反复查询
// 生产者不保证各轨道内部有序，全部查询按防御性线性扫描实现
type Index struct {
	doc *annotation.Document
}

// NewIndex 构建索引，nil 文档等价于空文档
func NewIndex(doc *annotation.Document) *Index {
	if doc == nil {
		doc = &annotation.Document{}
	}
	return &Index{doc: doc}
}

func (x *Index) Document() *annotation.Document { return x.doc }

// ActiveLabels 返回 t 时刻命中的标签，任一区间包含 t 即命中，保持文档顺序
func (x *Index) ActiveLabels(t float64) []annotation.Label {
	out := make([]annotation.Label, 0, 4)
	for _, l := range x.doc.Labels {
		if anySegmentContains(l.Segments, t) {
			out = append(out, l)
		}
	}
	return out
}

// ActiveTexts 返回 t 时刻命中的屏幕文字，保持文档顺序
func (x *Index) ActiveTexts(t float64) []annotation.Text {
	out := make([]annotation.Text, 0, 4)
	for _, item := range x.doc.Texts {
		if anySegmentContains(item.Segments, t) {
			out = append(out, item)
		}
	}
	return out
}

// ActiveLogos 返回 t 时刻命中的徽标，任一轨迹区间包含 t 即命中
func (x *Index) ActiveLogos(t float64) []annotation.Logo {
	out := make([]annotation.Logo, 0, 2)
	for _, l := range x.doc.Logos {
		for _, tr := range l.Tracks {
			if tr.Segment.Contains(t) {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

func anySegmentContains(segs []annotation.Segment, t float64) bool {
	for _, s := range segs {
		if s.Contains(t) {
			return true
		}
	}
	return false
}

// ObjectHit 命中的物体及其被选中的采样帧
type ObjectHit struct {
	Entity     string                 `json:"entity"`
	Confidence float64                `json:"confidence"`
	Frame      annotation.ObjectFrame `json:"frame"`
	Distance   float64                `json:"distance"`
}

// ActiveObjects 返回 t 时刻命中的物体
// 每个物体取容差窗口内离 t 最近的采样帧，严格更近才替换，
// 等距并列时保留文档中先出现的帧；窗口外的物体整体排除
func (x *Index) ActiveObjects(t float64) []ObjectHit {
	out := make([]ObjectHit, 0, 4)
	for _, obj := range x.doc.Objects {
		best := -1
		bestDist := 0.0
		for i, f := range obj.Frames {
			d := math.Abs(t - f.Time)
			if d > ObjectFrameTolerance {
				continue
			}
			if best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		if best >= 0 {
			out = append(out, ObjectHit{
				Entity:     obj.Entity,
				Confidence: obj.Confidence,
				Frame:      obj.Frames[best],
				Distance:   bestDist,
			})
		}
	}
	return out
}

// ShotAt 返回按文档顺序第一个包含 t 的镜头
// duration > 0 时镜头区间先钳制到 [0, duration]，未知时长不做钳制
func (x *Index) ShotAt(t, duration float64) (annotation.Shot, int, bool) {
	for i, s := range x.doc.Shots {
		start, end := s.Start, s.End
		if duration > 0 {
			start = clamp(start, 0, duration)
			end = clamp(end, 0, duration)
		}
		if start <= t && t <= end {
			return s, i, true
		}
	}
	return annotation.Shot{}, 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ExplicitAt 返回 t 时刻适用的最近一次内容检测状态
// 即 time <= t 的最后一个事件；t 之前无事件时无状态可展示
func (x *Index) ExplicitAt(t float64) (annotation.ExplicitFrame, bool) {
	var best annotation.ExplicitFrame
	found := false
	for _, f := range x.doc.ExplicitContent {
		if f.Time <= t && (!found || f.Time >= best.Time) {
			best = f
			found = true
		}
	}
	return best, found
}

// HasSpeech 文档是否带有语音轨道，用于区分“无语音识别”与“附近无字幕”
func (x *Index) HasSpeech() bool {
	return len(x.doc.Speech) > 0
}

// SpeechSnippet t 附近的语音片段
type SpeechSnippet struct {
	Text   string            `json:"text"`
	TextEN string            `json:"text_en,omitempty"`
	Words  []annotation.Word `json:"words"`
}

// SpeechAt 汇总窗口 [t-5, t+5] 内的全部词
// 跨所有备选组收集，按词的开始时间稳定排序后以单个空格拼接；
// 结果为空表示窗口内无词，与整个轨道缺失是不同的状态
func (x *Index) SpeechAt(t float64) SpeechSnippet {
	lo, hi := t-SpeechWindow, t+SpeechWindow

	var words []annotation.Word
	var enParts []string
	for _, group := range x.doc.Speech {
		first, last := -1, -1
		for i, w := range group.Words {
			if w.End >= lo && w.Start <= hi {
				if first < 0 {
					first = i
				}
				last = i
				words = append(words, w)
			}
		}
		if first >= 0 && group.TranscriptEN != "" {
			if en := alignTranscript(group, first, last); en != "" {
				enParts = append(enParts, en)
			}
		}
	}
	if len(words) == 0 {
		return SpeechSnippet{}
	}

	sort.SliceStable(words, func(i, j int) bool { return words[i].Start < words[j].Start })

	parts := make([]string, 0, len(words))
	for _, w := range words {
		if w.Word != "" {
			parts = append(parts, w.Word)
		}
	}
	return SpeechSnippet{
		Text:   strings.Join(parts, " "),
		TextEN: strings.Join(enParts, " "),
		Words:  words,
	}
}

// alignTranscript 将命中的词段按字符偏移比例映射到第二语言文本
// 这是沿用的近似做法：字符比例不等于词对齐，结果仅供展示参考
func alignTranscript(group annotation.Transcript, first, last int) string {
	src := []rune(group.Transcript)
	dst := []rune(group.TranscriptEN)
	if len(src) == 0 || len(dst) == 0 {
		return ""
	}

	startOff := strings.Index(group.Transcript, group.Words[first].Word)
	if startOff < 0 {
		return group.TranscriptEN
	}
	lastWord := group.Words[last].Word
	endOff := strings.LastIndex(group.Transcript, lastWord)
	if endOff < 0 {
		endOff = len(group.Transcript)
	} else {
		endOff += len(lastWord)
	}

	startRune := len([]rune(group.Transcript[:startOff]))
	endRune := len([]rune(group.Transcript[:min(endOff, len(group.Transcript))]))

	i := int(math.Floor(float64(startRune) / float64(len(src)) * float64(len(dst))))
	j := int(math.Ceil(float64(endRune) / float64(len(src)) * float64(len(dst))))
	i = int(clamp(float64(i), 0, float64(len(dst))))
	j = int(clamp(float64(j), float64(i), float64(len(dst))))
	return strings.TrimSpace(string(dst[i:j]))
}
