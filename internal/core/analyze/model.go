package analyze

import "github.com/ixugo/goddd/pkg/orm"

const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Job 一次视频分析任务
// 分析是一次性的外部调用，结果以旁挂 JSON 落盘
type Job struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	VideoName   string    `gorm:"column:video_name;index" json:"video_name"`
	Status      string    `gorm:"column:status" json:"status"`
	Error       string    `gorm:"column:error" json:"error,omitempty"`
	SidecarPath string    `gorm:"column:sidecar_path" json:"sidecar_path,omitempty"` // 产出的标注文件路径
	StartedAt   *orm.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt  *orm.Time `gorm:"column:finished_at" json:"finished_at"`
	CreatedAt   orm.Time  `json:"created_at"`
	UpdatedAt   orm.Time  `json:"updated_at"`
}

func (*Job) TableName() string {
	return "analyze_jobs"
}
