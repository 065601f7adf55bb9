package timeline

import "github.com/rainlabel/rainlabel/internal/core/annotation"

// SeekController 将用户手势换算为时间并写入时间源
// 只修改 Clock，不直接触发活跃集计算；
// 求值由 Clock 自身的更新通知驱动，两者保持解耦
type SeekController struct {
	clock *Clock
}

func NewSeekController(clock *Clock) SeekController {
	return SeekController{clock: clock}
}

// SeekToSegment 点击标签区间，跳转到区间起点
// 仅钳制到 [0, duration]，时长未知时不设上限
func (s SeekController) SeekToSegment(seg annotation.Segment) float64 {
	t := seg.Start
	if t < 0 {
		t = 0
	}
	if d := s.clock.Duration(); d > 0 && t > d {
		t = d
	}
	s.clock.Set(t)
	return t
}

// SeekTimeline 点击时间轴，按横向像素比例换算时间
// t = (x / w) * duration；时长未知或控件宽度非法时结果为 0
func (s SeekController) SeekTimeline(x, w float64) float64 {
	d := s.clock.Duration()
	var t float64
	if w > 0 && d > 0 {
		t = clamp(x/w*d, 0, d)
	}
	s.clock.Set(t)
	return t
}
