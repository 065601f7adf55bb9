package timeline

// Clock 播放时间源
// 直接反映播放器状态：当前时间、已知后的总时长，
// 以及每次推进或跳转时的单向通知，不做缓冲与重试
type Clock struct {
	current  float64
	duration float64
	subs     []func(t float64)
}

func NewClock() *Clock {
	return &Clock{}
}

// OnUpdate 订阅时间更新通知，播放推进与跳转都会触发
func (c *Clock) OnUpdate(fn func(t float64)) {
	c.subs = append(c.subs, fn)
}

// Current 当前播放时间（秒）
func (c *Clock) Current() float64 { return c.current }

// Duration 视频总时长，未知时为 0
func (c *Clock) Duration() float64 { return c.duration }

// SetDuration 时长已知后设置，0 表示仍未知
func (c *Clock) SetDuration(d float64) {
	if d > 0 {
		c.duration = d
	}
}

// Set 设置当前时间并通知订阅者
func (c *Clock) Set(t float64) {
	if t < 0 {
		t = 0
	}
	c.current = t
	for _, fn := range c.subs {
		fn(t)
	}
}
