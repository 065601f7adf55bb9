package timeline

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rainlabel/rainlabel/internal/core/annotation"
)

func TestResolveIdempotent(t *testing.T) {
	doc := annotation.Document{
		Labels: []annotation.Label{
			{Description: "cat", Segments: []annotation.Segment{seg(0, 10)}},
		},
	}
	r := NewResolver(NewIndex(&doc))

	a := r.Resolve(5, 20)
	b := r.Resolve(5, 20)
	if a != b {
		t.Fatal("same input must return the same result object")
	}

	// 序列化结果逐字节一致
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatal("serialized results differ")
	}
}

func TestResolveRecomputesOnChange(t *testing.T) {
	doc := annotation.Document{
		Labels: []annotation.Label{
			{Description: "cat", Segments: []annotation.Segment{seg(0, 4)}},
		},
	}
	r := NewResolver(NewIndex(&doc))

	a := r.Resolve(2, 10)
	b := r.Resolve(6, 10)
	if a == b {
		t.Fatal("different time must produce a new result")
	}
	if len(a.Labels) != 1 || len(b.Labels) != 0 {
		t.Fatalf("unexpected label hits: %d %d", len(a.Labels), len(b.Labels))
	}
}

func TestResolveTruncatesTexts(t *testing.T) {
	doc := annotation.Document{}
	for i := 0; i < 10; i++ {
		doc.Texts = append(doc.Texts, annotation.Text{
			Text:     fmt.Sprintf("t%d", i),
			Segments: []annotation.Segment{seg(0, 100)},
		})
	}
	r := NewResolver(NewIndex(&doc))

	out := r.Resolve(50, 100)
	if len(out.Texts) != MaxActiveTexts {
		t.Fatalf("want %d texts, got %d", MaxActiveTexts, len(out.Texts))
	}
	// 截断保留文档顺序的前缀
	for i, item := range out.Texts {
		if item.Text != fmt.Sprintf("t%d", i) {
			t.Fatalf("order broken at %d: %s", i, item.Text)
		}
	}
}

func TestResolveTruncatesObjects(t *testing.T) {
	doc := annotation.Document{}
	for i := 0; i < 7; i++ {
		doc.Objects = append(doc.Objects, annotation.Object{
			Entity: fmt.Sprintf("o%d", i),
			Frames: []annotation.ObjectFrame{{Time: 5}},
		})
	}
	r := NewResolver(NewIndex(&doc))

	out := r.Resolve(5, 100)
	if len(out.Objects) != MaxActiveObjects {
		t.Fatalf("want %d objects, got %d", MaxActiveObjects, len(out.Objects))
	}
	if out.Objects[0].Entity != "o0" {
		t.Fatalf("order broken: %s", out.Objects[0].Entity)
	}
}

func TestResolveSpeechStates(t *testing.T) {
	// 无语音轨道
	r := NewResolver(NewIndex(&annotation.Document{}))
	if out := r.Resolve(10, 0); out.Speech.Available {
		t.Fatal("no speech track means unavailable")
	}

	// 有轨道但窗口为空
	doc := annotation.Document{
		Speech: []annotation.Transcript{
			{Transcript: "far", Words: []annotation.Word{{Word: "far", Start: 100, End: 101}}},
		},
	}
	r = NewResolver(NewIndex(&doc))
	out := r.Resolve(10, 0)
	if !out.Speech.Available {
		t.Fatal("speech track present means available")
	}
	if out.Speech.Snippet != "" {
		t.Fatalf("window empty, got %q", out.Speech.Snippet)
	}
}

func TestResolveShotAndExplicit(t *testing.T) {
	doc := annotation.Document{
		Shots: []annotation.Shot{{Start: 0, End: 4}, {Start: 4.1, End: 9}},
		ExplicitContent: []annotation.ExplicitFrame{
			{Time: 1, PornographyLikelihood: "UNLIKELY"},
		},
	}
	r := NewResolver(NewIndex(&doc))

	out := r.Resolve(5, 9)
	if out.Shot == nil || out.Shot.Index != 1 {
		t.Fatalf("want shot index 1, got %+v", out.Shot)
	}
	if out.Explicit == nil || out.Explicit.PornographyLikelihood != "UNLIKELY" {
		t.Fatalf("want explicit state, got %+v", out.Explicit)
	}

	out = r.Resolve(0.5, 9)
	if out.Shot == nil || out.Shot.Index != 0 {
		t.Fatalf("want shot index 0, got %+v", out.Shot)
	}
}
