// Package annotationfs 从旁挂文件读取标注文档
// 查找顺序与旧版分析脚本的落盘位置保持一致：
// 元数据目录 -> 视频文件同名 .json -> 标注目录精确命名 -> 标注目录前缀匹配
package annotationfs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/ixugo/goddd/pkg/reason"
	"github.com/rainlabel/rainlabel/internal/conf"
	"github.com/rainlabel/rainlabel/internal/core/annotation"
)

// VideoExts 支持的视频扩展名
var VideoExts = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

type Store struct {
	videoDir    string
	metadataDir string
	labelDir    string
}

func NewStore(media *conf.Media) *Store {
	return &Store{
		videoDir:    media.VideoDir,
		metadataDir: media.MetadataDir,
		labelDir:    media.LabelDir,
	}
}

// GetDocument 读取并规范化标注文档
func (s *Store) GetDocument(_ context.Context, videoName string) (*annotation.Document, error) {
	path, ok := s.resolve(videoName)
	if !ok {
		return nil, reason.ErrNotFound.Withf("no metadata for video[%s]", videoName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, reason.ErrNotFound.Withf("read metadata[%s] err[%s]", path, err.Error())
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, reason.ErrServer.Withf("invalid metadata file[%s] err[%s]", path, err.Error())
	}
	if doc.VideoName == "" {
		doc.VideoName = videoName
	}
	return doc, nil
}

// HasMetadata 判断是否存在标注文档
func (s *Store) HasMetadata(videoName string) bool {
	_, ok := s.resolve(videoName)
	return ok
}

// resolve 依次查找标注文档的落盘位置
func (s *Store) resolve(videoName string) (string, bool) {
	if p := filepath.Join(s.metadataDir, videoName+".json"); fileExists(p) {
		return p, true
	}
	for _, ext := range VideoExts {
		video := filepath.Join(s.videoDir, videoName+ext)
		if fileExists(video) && fileExists(video+".json") {
			return video + ".json", true
		}
	}
	if p := filepath.Join(s.labelDir, videoName+".json"); fileExists(p) {
		return p, true
	}
	matches, _ := filepath.Glob(filepath.Join(s.labelDir, videoName+"*.json"))
	if len(matches) > 0 {
		sort.Strings(matches)
		return matches[0], true
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// labelRecord 同时兼容新旧两种标签结构
// 旧版分析脚本输出扁平的 start_time/end_time 记录，需要按描述聚合
type labelRecord struct {
	Description string               `json:"description"`
	Entity      string               `json:"entity"`
	Confidence  float64              `json:"confidence"`
	Categories  []string             `json:"categories"`
	Category    []string             `json:"category"`
	Segments    []annotation.Segment `json:"segments"`
	StartTime   *float64             `json:"start_time"`
	EndTime     *float64             `json:"end_time"`
}

type rawDocument struct {
	VideoName string `json:"video_name"`
	VideoFile string `json:"video_file"`

	Labels          []labelRecord              `json:"labels"`
	Shots           []annotation.Shot          `json:"shots"`
	Objects         []annotation.Object        `json:"objects"`
	Texts           []annotation.Text          `json:"text"`
	Logos           []annotation.Logo          `json:"logos"`
	Speech          []annotation.Transcript    `json:"speech"`
	ExplicitContent []annotation.ExplicitFrame `json:"explicit_content"`
}

func decodeDocument(data []byte) (*annotation.Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := annotation.Document{
		VideoName:       raw.VideoName,
		Shots:           raw.Shots,
		Objects:         raw.Objects,
		Texts:           raw.Texts,
		Logos:           raw.Logos,
		Speech:          raw.Speech,
		ExplicitContent: raw.ExplicitContent,
	}
	if doc.VideoName == "" {
		doc.VideoName = raw.VideoFile
	}

	if isSegmented(raw.Labels) {
		doc.Labels = make([]annotation.Label, 0, len(raw.Labels))
		for _, rec := range raw.Labels {
			doc.Labels = append(doc.Labels, annotation.Label{
				Description: rec.Description,
				Confidence:  rec.Confidence,
				Categories:  rec.Categories,
				Segments:    rec.Segments,
			})
		}
	} else {
		doc.Labels = groupFlatLabels(raw.Labels)
	}
	return &doc, nil
}

// isSegmented 新版结构的标签自带 segments 数组
func isSegmented(labels []labelRecord) bool {
	for _, rec := range labels {
		if rec.Segments != nil {
			return true
		}
	}
	return false
}

// groupFlatLabels 将旧版扁平标签按描述聚合为区间结构
// 代表置信度取各记录最大值，类别求并集后排序
func groupFlatLabels(labels []labelRecord) []annotation.Label {
	grouped := make(map[string]*annotation.Label)
	order := make([]string, 0, len(labels))

	for _, rec := range labels {
		desc := rec.Description
		if desc == "" {
			desc = rec.Entity
		}
		if desc == "" {
			desc = "Unknown"
		}
		cats := rec.Categories
		if len(cats) == 0 {
			cats = rec.Category
		}

		g, ok := grouped[desc]
		if !ok {
			g = &annotation.Label{Description: desc}
			grouped[desc] = g
			order = append(order, desc)
		}
		if rec.Confidence > g.Confidence {
			g.Confidence = rec.Confidence
		}
		g.Categories = mergeCategories(g.Categories, cats)
		if rec.StartTime != nil && rec.EndTime != nil {
			conf := rec.Confidence
			g.Segments = append(g.Segments, annotation.Segment{
				Start:      *rec.StartTime,
				End:        *rec.EndTime,
				Confidence: &conf,
			})
		}
	}

	out := make([]annotation.Label, 0, len(order))
	for _, desc := range order {
		out = append(out, *grouped[desc])
	}
	return out
}

func mergeCategories(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	set := make(map[string]struct{}, len(dst)+len(src))
	for _, c := range dst {
		set[c] = struct{}{}
	}
	for _, c := range src {
		if c != "" {
			set[c] = struct{}{}
		}
	}
	merged := make([]string, 0, len(set))
	for c := range set {
		merged = append(merged, c)
	}
	sort.Strings(merged)
	return merged
}
