package timeline

import "github.com/rainlabel/rainlabel/internal/core/annotation"

type CreateSessionInput struct {
	VideoName string `json:"video_name"` // 选定的视频名（不含扩展名）
}

type UpdateTimeInput struct {
	Time     float64 `json:"time"`     // 当前播放时间（秒）
	Duration float64 `json:"duration"` // 视频总时长，未知传 0
}

// TimelineClick 时间轴点击位置
type TimelineClick struct {
	X     float64 `json:"x"`     // 控件内横向像素偏移
	Width float64 `json:"width"` // 控件宽度（像素）
}

// SeekInput 跳转请求，二选一
type SeekInput struct {
	Segment  *annotation.Segment `json:"segment,omitempty"`  // 标签区间点击
	Timeline *TimelineClick      `json:"timeline,omitempty"` // 时间轴点击
}

// SessionView 会话状态快照
type SessionView struct {
	ID        string     `json:"id"`
	VideoName string     `json:"video_name"`
	Fetching  bool       `json:"fetching"`         // 元数据获取中
	Loaded    bool       `json:"loaded"`           // 文档已成功加载
	Error     string     `json:"error,omitempty"`  // 获取失败的错误标记，可重试
	Active    *ActiveSet `json:"active,omitempty"` // 最近一次求值结果
}
