package library

import "github.com/ixugo/goddd/pkg/orm"

// Video 视频登记记录
// 启动时从视频目录同步，标题等展示信息保存在库中
type Video struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"column:name;uniqueIndex" json:"name"` // 文件名去扩展名
	Title      string    `gorm:"column:title" json:"title"`           // 展示标题，可为空
	Filename   string    `gorm:"column:filename" json:"filename"`
	Size       int64     `gorm:"column:size" json:"size"`
	AnalyzedAt *orm.Time `gorm:"column:analyzed_at" json:"analyzed_at"` // 最近一次分析完成时间
	CreatedAt  orm.Time  `json:"created_at"`
	UpdatedAt  orm.Time  `json:"updated_at"`
}

func (*Video) TableName() string {
	return "videos"
}

// VideoInfo 对外的视频列表项
type VideoInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Filename    string `json:"filename"`
	Path        string `json:"path"` // 静态服务下的播放路径
	Size        int64  `json:"size"`
	HasMetadata bool   `json:"has_metadata"`
}

// Clip 演示剪辑片段
type Clip struct {
	Filename string  `json:"filename"`
	Path     string  `json:"path"`
	Duration float64 `json:"duration"` // 秒
}

// StorageStats 视频库磁盘占用统计
type StorageStats struct {
	VideoCount      int     `json:"video_count"`
	TotalBytes      int64   `json:"total_bytes"`       // 视频文件合计大小
	DiskTotal       uint64  `json:"disk_total"`        // 所在磁盘容量
	DiskFree        uint64  `json:"disk_free"`         // 所在磁盘剩余
	DiskUsedPercent float64 `json:"disk_used_percent"` // 磁盘使用率
}
