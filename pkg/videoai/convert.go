package videoai

import (
	"sort"

	vipb "cloud.google.com/go/videointelligence/apiv1/videointelligencepb"
	"github.com/rainlabel/rainlabel/internal/core/annotation"
	"google.golang.org/protobuf/types/known/durationpb"
)

// convertResults 把两次分析的结果合并为一份标注文档
// 主结果提供标签、镜头、对象、文字、台标与敏感内容，语音结果只取转写
func convertResults(main, speech *vipb.VideoAnnotationResults) *annotation.Document {
	doc := annotation.Document{
		Labels:          []annotation.Label{},
		Shots:           []annotation.Shot{},
		Objects:         []annotation.Object{},
		Texts:           []annotation.Text{},
		Logos:           []annotation.Logo{},
		Speech:          []annotation.Transcript{},
		ExplicitContent: []annotation.ExplicitFrame{},
	}
	if main != nil {
		doc.Labels = convertLabels(main.SegmentLabelAnnotations, main.ShotLabelAnnotations)
		doc.Shots = convertShots(main.ShotAnnotations)
		doc.Objects = convertObjects(main.ObjectAnnotations)
		doc.Texts = convertTexts(main.TextAnnotations)
		doc.Logos = convertLogos(main.LogoRecognitionAnnotations)
		if main.ExplicitAnnotation != nil {
			doc.ExplicitContent = convertExplicit(main.ExplicitAnnotation.Frames)
		}
	}
	if speech != nil {
		doc.Speech = convertSpeech(speech.SpeechTranscriptions)
	}
	return &doc
}

// convertLabels 按实体描述聚合片段级与镜头级标签
// 代表置信度取最大值，类别求并集后排序
func convertLabels(groups ...[]*vipb.LabelAnnotation) []annotation.Label {
	grouped := make(map[string]*annotation.Label)
	order := make([]string, 0, 16)

	for _, anns := range groups {
		for _, ann := range anns {
			if ann == nil || ann.Entity == nil {
				continue
			}
			desc := ann.Entity.Description
			if desc == "" {
				desc = "Unknown"
			}
			g, ok := grouped[desc]
			if !ok {
				g = &annotation.Label{Description: desc}
				grouped[desc] = g
				order = append(order, desc)
			}
			for _, cat := range ann.CategoryEntities {
				if cat != nil && cat.Description != "" {
					g.Categories = appendUnique(g.Categories, cat.Description)
				}
			}
			for _, seg := range ann.Segments {
				if seg == nil || seg.Segment == nil {
					continue
				}
				conf := float64(seg.Confidence)
				if conf > g.Confidence {
					g.Confidence = conf
				}
				c := conf
				g.Segments = append(g.Segments, annotation.Segment{
					Start:      durToSec(seg.Segment.StartTimeOffset),
					End:        durToSec(seg.Segment.EndTimeOffset),
					Confidence: &c,
				})
			}
		}
	}

	out := make([]annotation.Label, 0, len(order))
	for _, desc := range order {
		g := grouped[desc]
		sort.Strings(g.Categories)
		out = append(out, *g)
	}
	return out
}

func convertShots(shots []*vipb.VideoSegment) []annotation.Shot {
	out := make([]annotation.Shot, 0, len(shots))
	for _, sh := range shots {
		if sh == nil {
			continue
		}
		out = append(out, annotation.Shot{
			Start: durToSec(sh.StartTimeOffset),
			End:   durToSec(sh.EndTimeOffset),
		})
	}
	return out
}

func convertObjects(anns []*vipb.ObjectTrackingAnnotation) []annotation.Object {
	out := make([]annotation.Object, 0, len(anns))
	for _, ann := range anns {
		if ann == nil {
			continue
		}
		obj := annotation.Object{
			Confidence: float64(ann.Confidence),
			Frames:     make([]annotation.ObjectFrame, 0, len(ann.Frames)),
		}
		if ann.Entity != nil {
			obj.Entity = ann.Entity.Description
		}
		for _, frame := range ann.Frames {
			if frame == nil {
				continue
			}
			f := annotation.ObjectFrame{Time: durToSec(frame.TimeOffset)}
			if box := frame.NormalizedBoundingBox; box != nil {
				f.BBox = annotation.BBox{
					Left:   float64(box.Left),
					Top:    float64(box.Top),
					Right:  float64(box.Right),
					Bottom: float64(box.Bottom),
				}
			}
			obj.Frames = append(obj.Frames, f)
		}
		out = append(out, obj)
	}
	return out
}

func convertTexts(anns []*vipb.TextAnnotation) []annotation.Text {
	out := make([]annotation.Text, 0, len(anns))
	for _, ann := range anns {
		if ann == nil || ann.Text == "" {
			continue
		}
		item := annotation.Text{
			Text:     ann.Text,
			Segments: make([]annotation.Segment, 0, len(ann.Segments)),
		}
		for _, seg := range ann.Segments {
			if seg == nil || seg.Segment == nil {
				continue
			}
			conf := float64(seg.Confidence)
			item.Segments = append(item.Segments, annotation.Segment{
				Start:      durToSec(seg.Segment.StartTimeOffset),
				End:        durToSec(seg.Segment.EndTimeOffset),
				Confidence: &conf,
			})
		}
		out = append(out, item)
	}
	return out
}

func convertLogos(anns []*vipb.LogoRecognitionAnnotation) []annotation.Logo {
	out := make([]annotation.Logo, 0, len(anns))
	for _, ann := range anns {
		if ann == nil {
			continue
		}
		logo := annotation.Logo{Tracks: make([]annotation.LogoTrack, 0, len(ann.Tracks))}
		if ann.Entity != nil {
			logo.Entity = ann.Entity.Description
		}
		for _, tr := range ann.Tracks {
			if tr == nil || tr.Segment == nil {
				continue
			}
			conf := float64(tr.Confidence)
			logo.Tracks = append(logo.Tracks, annotation.LogoTrack{
				Segment: annotation.Segment{
					Start: durToSec(tr.Segment.StartTimeOffset),
					End:   durToSec(tr.Segment.EndTimeOffset),
				},
				Confidence: &conf,
			})
		}
		out = append(out, logo)
	}
	return out
}

func convertExplicit(frames []*vipb.ExplicitContentFrame) []annotation.ExplicitFrame {
	out := make([]annotation.ExplicitFrame, 0, len(frames))
	for _, frame := range frames {
		if frame == nil {
			continue
		}
		out = append(out, annotation.ExplicitFrame{
			Time:                  durToSec(frame.TimeOffset),
			PornographyLikelihood: frame.PornographyLikelihood.String(),
		})
	}
	return out
}

// convertSpeech 每个备选转写单独成组，保留词级时间戳
func convertSpeech(sts []*vipb.SpeechTranscription) []annotation.Transcript {
	out := make([]annotation.Transcript, 0, len(sts))
	for _, st := range sts {
		if st == nil {
			continue
		}
		for _, alt := range st.Alternatives {
			if alt == nil {
				continue
			}
			conf := float64(alt.Confidence)
			tr := annotation.Transcript{
				Transcript: alt.Transcript,
				Confidence: &conf,
				Words:      make([]annotation.Word, 0, len(alt.Words)),
			}
			for _, w := range alt.Words {
				if w == nil {
					continue
				}
				tr.Words = append(tr.Words, annotation.Word{
					Word:  w.Word,
					Start: durToSec(w.StartTime),
					End:   durToSec(w.EndTime),
				})
			}
			out = append(out, tr)
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func durToSec(d *durationpb.Duration) float64 {
	if d == nil {
		return 0
	}
	return float64(d.Seconds) + float64(d.Nanos)/1e9
}
