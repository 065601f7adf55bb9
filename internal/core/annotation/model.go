package annotation

// Document 一个视频的全部标注数据，获取后不可变
// 缺失的轨道等价于空序列，时间均为浮点秒
type Document struct {
	VideoName string `json:"video_name,omitempty"`

	Labels          []Label         `json:"labels"`
	Shots           []Shot          `json:"shots"`
	Objects         []Object        `json:"objects"`
	Texts           []Text          `json:"text"`
	Logos           []Logo          `json:"logos"`
	Speech          []Transcript    `json:"speech"`
	ExplicitContent []ExplicitFrame `json:"explicit_content"`
}

// IsEmpty 所有轨道均为空
func (d *Document) IsEmpty() bool {
	if d == nil {
		return true
	}
	return len(d.Labels) == 0 && len(d.Shots) == 0 && len(d.Objects) == 0 &&
		len(d.Texts) == 0 && len(d.Logos) == 0 && len(d.Speech) == 0 &&
		len(d.ExplicitContent) == 0
}

// Segment 闭区间时间段 [start, end]
// Confidence 为空表示生产者未给出置信度，与 0 含义不同
type Segment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Contains 判断 t 是否落在区间内，边界时刻视为命中
func (s Segment) Contains(t float64) bool {
	return s.Start <= t && t <= s.End
}

type Label struct {
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"`
	Categories  []string  `json:"categories"`
	Segments    []Segment `json:"segments"`
}

// BBox 归一化包围盒，取值 [0,1]
type BBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

type ObjectFrame struct {
	Time float64 `json:"time"`
	BBox BBox    `json:"bbox"`
}

type Object struct {
	Entity     string        `json:"entity"`
	Confidence float64       `json:"confidence"`
	Frames     []ObjectFrame `json:"frames"`
}

// Text OCR 识别出的屏幕文字
type Text struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

type LogoTrack struct {
	Segment    Segment  `json:"segment"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type Logo struct {
	Entity string      `json:"entity"`
	Tracks []LogoTrack `json:"tracks"`
}

// Shot 镜头切换区间，生产者保证互不重叠但不保证有序
type Shot struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript 语音识别备选组
// TranscriptEN 为可选的第二语言文本，用于双语字幕展示
type Transcript struct {
	Transcript   string   `json:"transcript"`
	TranscriptEN string   `json:"transcript_en,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
	Words        []Word   `json:"words"`
}

// ExplicitFrame 状态变更事件，表示自该时刻起的最新检测状态
type ExplicitFrame struct {
	Time                  float64 `json:"time"`
	PornographyLikelihood string  `json:"pornography_likelihood"`
}
