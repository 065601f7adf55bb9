package library

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/rainlabel/rainlabel/internal/conf"
	"github.com/shirou/gopsutil/v4/disk"
)

// VideoExts 支持的视频扩展名，与旁挂元数据查找保持一致
var VideoExts = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

// VideoStorer Instantiation interface
type VideoStorer interface {
	Find(ctx context.Context) ([]*Video, error)
	Get(ctx context.Context, name string) (*Video, error)
	FirstOrCreate(ctx context.Context, v *Video) error
	Edit(ctx context.Context, name string, fn func(*Video)) error
}

// Storer data persistence
type Storer interface {
	Video() VideoStorer
}

// MetadataChecker 判断视频是否已有标注文档，由标注存储实现
type MetadataChecker interface {
	HasMetadata(videoName string) bool
}

// Core business domain
type Core struct {
	store   Storer
	checker MetadataChecker
	media   *conf.Media
}

// NewCore create business domain
func NewCore(store Storer, checker MetadataChecker, media *conf.Media) Core {
	return Core{store: store, checker: checker, media: media}
}

// ListVideos 扫描视频目录，返回可播放的视频列表
// 跳过零字节与不可读文件；标题来自数据库登记
func (c Core) ListVideos(ctx context.Context) ([]VideoInfo, error) {
	entries, err := os.ReadDir(c.media.VideoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []VideoInfo{}, nil
		}
		return nil, reason.ErrServer.Withf("read video dir err[%s]", err.Error())
	}

	titles := c.loadTitles(ctx)

	out := make([]VideoInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isVideoFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() <= 0 {
			continue
		}
		name := stem(entry.Name())
		out = append(out, VideoInfo{
			Name:        name,
			Title:       titles[name],
			Filename:    entry.Name(),
			Path:        "/static/videos/" + entry.Name(),
			Size:        info.Size(),
			HasMetadata: c.checker.HasMetadata(name),
		})
	}
	return out, nil
}

// GetVideo 查询单个视频信息
func (c Core) GetVideo(ctx context.Context, name string) (*VideoInfo, error) {
	path, filename, err := c.ResolvePath(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, reason.ErrNotFound.Withf("video[%s] not found", name)
	}

	titles := c.loadTitles(ctx)
	return &VideoInfo{
		Name:        name,
		Title:       titles[name],
		Filename:    filename,
		Path:        "/static/videos/" + filename,
		Size:        info.Size(),
		HasMetadata: c.checker.HasMetadata(name),
	}, nil
}

// ResolvePath 按扩展名顺序解析视频文件的磁盘路径
func (c Core) ResolvePath(name string) (path, filename string, err error) {
	for _, ext := range VideoExts {
		p := filepath.Join(c.media.VideoDir, name+ext)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, name + ext, nil
		}
	}
	return "", "", reason.ErrNotFound.Withf("video[%s] not found", name)
}

// FindClips 查找某个视频的演示剪辑，命名约定为 <name>_clipN.<ext>
// 剪辑由准备脚本按固定时长切出，时长取配置值
func (c Core) FindClips(name string) []Clip {
	entries, err := os.ReadDir(c.media.VideoDir)
	if err != nil {
		return nil
	}
	prefix := name + "_clip"
	clips := make([]Clip, 0, 4)
	for _, entry := range entries {
		if entry.IsDir() || !isVideoFile(entry.Name()) {
			continue
		}
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		clips = append(clips, Clip{
			Filename: entry.Name(),
			Path:     "/static/videos/" + entry.Name(),
			Duration: c.media.ClipSeconds,
		})
	}
	sort.Slice(clips, func(i, j int) bool { return clips[i].Filename < clips[j].Filename })
	return clips
}

// MarkAnalyzed 记录视频完成分析的时间
func (c Core) MarkAnalyzed(ctx context.Context, name string) error {
	return c.store.Video().Edit(ctx, name, func(v *Video) {
		now := orm.Now()
		v.AnalyzedAt = &now
	})
}

// StorageStats 统计视频库占用与所在磁盘状态
func (c Core) StorageStats(ctx context.Context) (*StorageStats, error) {
	out := StorageStats{}
	entries, err := os.ReadDir(c.media.VideoDir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !isVideoFile(entry.Name()) {
				continue
			}
			if info, err := entry.Info(); err == nil {
				out.VideoCount++
				out.TotalBytes += info.Size()
			}
		}
	}

	usage, err := disk.UsageWithContext(ctx, c.media.VideoDir)
	if err != nil {
		return &out, nil
	}
	out.DiskTotal = usage.Total
	out.DiskFree = usage.Free
	out.DiskUsedPercent = usage.UsedPercent
	return &out, nil
}

// loadTitles 读取已登记视频的标题映射，读库失败时不阻塞列表
func (c Core) loadTitles(ctx context.Context) map[string]string {
	titles := make(map[string]string)
	items, err := c.store.Video().Find(ctx)
	if err != nil {
		return titles
	}
	for _, v := range items {
		if v.Title != "" {
			titles[v.Name] = v.Title
		}
	}
	return titles
}

func isVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range VideoExts {
		if ext == e {
			return true
		}
	}
	return false
}

func stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
