package videoai

import (
	"testing"

	vipb "cloud.google.com/go/videointelligence/apiv1/videointelligencepb"
	"google.golang.org/protobuf/types/known/durationpb"
)

func dur(sec int64, nanos int32) *durationpb.Duration {
	return &durationpb.Duration{Seconds: sec, Nanos: nanos}
}

func TestConvertLabelsGrouping(t *testing.T) {
	main := vipb.VideoAnnotationResults{
		SegmentLabelAnnotations: []*vipb.LabelAnnotation{
			{
				Entity:           &vipb.Entity{Description: "cat"},
				CategoryEntities: []*vipb.Entity{{Description: "animal"}},
				Segments: []*vipb.LabelSegment{
					{
						Segment:    &vipb.VideoSegment{StartTimeOffset: dur(0, 0), EndTimeOffset: dur(2, 500000000)},
						Confidence: 0.8,
					},
				},
			},
		},
		ShotLabelAnnotations: []*vipb.LabelAnnotation{
			{
				Entity: &vipb.Entity{Description: "cat"},
				Segments: []*vipb.LabelSegment{
					{
						Segment:    &vipb.VideoSegment{StartTimeOffset: dur(5, 0), EndTimeOffset: dur(7, 0)},
						Confidence: 0.9,
					},
				},
			},
		},
	}

	doc := convertResults(&main, nil)
	if len(doc.Labels) != 1 {
		t.Fatalf("want 1 grouped label, got %d", len(doc.Labels))
	}
	cat := doc.Labels[0]
	if cat.Confidence != 0.9 {
		t.Fatalf("confidence takes the max, got %v", cat.Confidence)
	}
	if len(cat.Segments) != 2 {
		t.Fatalf("want 2 segments, got %d", len(cat.Segments))
	}
	if cat.Segments[0].End != 2.5 {
		t.Fatalf("duration converted to seconds, got %v", cat.Segments[0].End)
	}
	if len(cat.Categories) != 1 || cat.Categories[0] != "animal" {
		t.Fatalf("categories kept, got %v", cat.Categories)
	}
}

func TestConvertTracks(t *testing.T) {
	main := vipb.VideoAnnotationResults{
		ShotAnnotations: []*vipb.VideoSegment{
			{StartTimeOffset: dur(0, 0), EndTimeOffset: dur(4, 0)},
		},
		ObjectAnnotations: []*vipb.ObjectTrackingAnnotation{
			{
				Entity:     &vipb.Entity{Description: "car"},
				Confidence: 0.7,
				Frames: []*vipb.ObjectTrackingFrame{
					{
						TimeOffset:            dur(1, 0),
						NormalizedBoundingBox: &vipb.NormalizedBoundingBox{Left: 0.1, Top: 0.2, Right: 0.3, Bottom: 0.4},
					},
				},
			},
		},
		TextAnnotations: []*vipb.TextAnnotation{
			{
				Text: "ПРИВЕТ",
				Segments: []*vipb.TextSegment{
					{
						Segment:    &vipb.VideoSegment{StartTimeOffset: dur(1, 0), EndTimeOffset: dur(2, 0)},
						Confidence: 0.95,
					},
				},
			},
		},
		ExplicitAnnotation: &vipb.ExplicitContentAnnotation{
			Frames: []*vipb.ExplicitContentFrame{
				{TimeOffset: dur(3, 0), PornographyLikelihood: vipb.Likelihood_VERY_UNLIKELY},
			},
		},
	}

	doc := convertResults(&main, nil)
	if len(doc.Shots) != 1 || doc.Shots[0].End != 4 {
		t.Fatalf("shots: %+v", doc.Shots)
	}
	if len(doc.Objects) != 1 || doc.Objects[0].Entity != "car" {
		t.Fatalf("objects: %+v", doc.Objects)
	}
	box := doc.Objects[0].Frames[0].BBox
	if box.Left == 0 || box.Top == 0 || box.Right == 0 || box.Bottom == 0 {
		t.Fatalf("bbox not converted: %+v", box)
	}
	if len(doc.Texts) != 1 || doc.Texts[0].Text != "ПРИВЕТ" {
		t.Fatalf("texts: %+v", doc.Texts)
	}
	if len(doc.ExplicitContent) != 1 || doc.ExplicitContent[0].PornographyLikelihood != "VERY_UNLIKELY" {
		t.Fatalf("explicit: %+v", doc.ExplicitContent)
	}
}

func TestConvertSpeechMerged(t *testing.T) {
	speech := vipb.VideoAnnotationResults{
		SpeechTranscriptions: []*vipb.SpeechTranscription{
			{
				Alternatives: []*vipb.SpeechRecognitionAlternative{
					{
						Transcript: "привет мир",
						Confidence: 0.92,
						Words: []*vipb.WordInfo{
							{Word: "привет", StartTime: dur(1, 0), EndTime: dur(2, 0)},
							{Word: "мир", StartTime: dur(2, 0), EndTime: dur(3, 0)},
						},
					},
				},
			},
		},
	}

	doc := convertResults(nil, &speech)
	if len(doc.Speech) != 1 {
		t.Fatalf("want 1 transcript group, got %d", len(doc.Speech))
	}
	tr := doc.Speech[0]
	if tr.Transcript != "привет мир" || len(tr.Words) != 2 {
		t.Fatalf("transcript: %+v", tr)
	}
	if tr.Words[1].Start != 2 || tr.Words[1].End != 3 {
		t.Fatalf("word times: %+v", tr.Words)
	}
	// 主结果缺失时其余轨道为空而非 nil
	if doc.Labels == nil || doc.Shots == nil {
		t.Fatal("tracks must be empty slices")
	}
}
