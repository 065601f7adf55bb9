package data

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rainlabel/rainlabel/internal/conf"
	"github.com/rainlabel/rainlabel/internal/core/library"
	"gorm.io/gorm"
)

// SyncLibrary 把视频目录中的文件登记到数据库
// 只补充缺失的行，已有标题等信息不会被覆盖
func SyncLibrary(db *gorm.DB, media *conf.Media) error {
	entries, err := os.ReadDir(media.VideoDir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("视频目录不存在，跳过登记", "dir", media.VideoDir)
			return nil
		}
		return err
	}

	ctx := context.Background()
	var count int
	for _, entry := range entries {
		if entry.IsDir() || !isVideoFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() <= 0 {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		v := library.Video{
			Name:     name,
			Filename: entry.Name(),
			Size:     info.Size(),
		}
		if err := db.WithContext(ctx).FirstOrCreate(&v, "name = ?", name).Error; err != nil {
			slog.Error("登记视频失败", "name", name, "err", err)
			continue
		}
		count++
	}
	slog.Info("视频库登记完成", "count", count)
	return nil
}

func isVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range library.VideoExts {
		if ext == e {
			return true
		}
	}
	return false
}
