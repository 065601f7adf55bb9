package annotation

import (
	"context"

	"github.com/ixugo/goddd/pkg/reason"
)

// Storer 元数据读取接口，由旁挂文件存储实现
type Storer interface {
	// GetDocument 读取指定视频的标注文档，不存在时返回 ErrNotFound
	GetDocument(ctx context.Context, videoName string) (*Document, error)
	// HasMetadata 判断指定视频是否存在标注文档
	HasMetadata(videoName string) bool
}

// Core business domain
type Core struct {
	store Storer
}

// NewCore create business domain
func NewCore(store Storer) Core {
	return Core{store: store}
}

// GetDocument 获取视频标注文档
// 一个视频选定后仅读取一次，文档在会话内不再变更
func (c Core) GetDocument(ctx context.Context, videoName string) (*Document, error) {
	if videoName == "" {
		return nil, reason.ErrBadRequest.Withf("video name is required")
	}
	doc, err := c.store.GetDocument(ctx, videoName)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// HasMetadata 判断视频是否有标注文档
func (c Core) HasMetadata(videoName string) bool {
	return c.store.HasMetadata(videoName)
}
