package analyze

import "github.com/ixugo/goddd/pkg/web"

type StartJobInput struct {
	VideoName string `json:"-"` // 视频名（由 API 层从路径参数填充）
}

type FindJobInput struct {
	web.PagerFilter
	VideoName string `form:"video_name"` // 按视频名筛选
	Status    string `form:"status"`     // 按状态筛选
}
