package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rainlabel/rainlabel/internal/conf"
)

type fakeVideoStore struct {
	videos []*Video
}

func (f *fakeVideoStore) Find(_ context.Context) ([]*Video, error) { return f.videos, nil }

func (f *fakeVideoStore) Get(_ context.Context, name string) (*Video, error) {
	for _, v := range f.videos {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, os.ErrNotExist
}

func (f *fakeVideoStore) FirstOrCreate(_ context.Context, v *Video) error {
	f.videos = append(f.videos, v)
	return nil
}

func (f *fakeVideoStore) Edit(_ context.Context, name string, fn func(*Video)) error {
	for _, v := range f.videos {
		if v.Name == name {
			fn(v)
			return nil
		}
	}
	return os.ErrNotExist
}

type fakeStore struct{ videos *fakeVideoStore }

func (f fakeStore) Video() VideoStorer { return f.videos }

type fakeChecker map[string]bool

func (f fakeChecker) HasMetadata(name string) bool { return f[name] }

func newTestCore(t *testing.T, store *fakeVideoStore, checker fakeChecker) (Core, *conf.Media) {
	t.Helper()
	media := conf.Media{
		VideoDir:    t.TempDir(),
		ClipSeconds: 60,
	}
	return NewCore(fakeStore{videos: store}, checker, &media), &media
}

func writeVideo(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListVideos(t *testing.T) {
	store := &fakeVideoStore{videos: []*Video{{Name: "demo", Title: "Демо"}}}
	core, media := newTestCore(t, store, fakeChecker{"demo": true})

	writeVideo(t, media.VideoDir, "demo.mp4", "data")
	writeVideo(t, media.VideoDir, "empty.mp4", "") // 零字节跳过
	writeVideo(t, media.VideoDir, "note.txt", "x") // 非视频跳过

	items, err := core.ListVideos(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 video, got %d", len(items))
	}
	v := items[0]
	if v.Name != "demo" || v.Title != "Демо" || !v.HasMetadata {
		t.Fatalf("unexpected item: %+v", v)
	}
	if v.Path != "/static/videos/demo.mp4" {
		t.Fatalf("static path: %q", v.Path)
	}
}

func TestListVideosMissingDir(t *testing.T) {
	media := conf.Media{VideoDir: "/nonexistent/for/test"}
	core := NewCore(fakeStore{videos: &fakeVideoStore{}}, fakeChecker{}, &media)

	items, err := core.ListVideos(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("missing dir means empty list, got %d", len(items))
	}
}

func TestResolvePath(t *testing.T) {
	core, media := newTestCore(t, &fakeVideoStore{}, fakeChecker{})
	writeVideo(t, media.VideoDir, "demo.webm", "data")

	path, filename, err := core.ResolvePath("demo")
	if err != nil {
		t.Fatal(err)
	}
	if filename != "demo.webm" || filepath.Base(path) != "demo.webm" {
		t.Fatalf("got %q %q", path, filename)
	}

	if _, _, err := core.ResolvePath("missing"); err == nil {
		t.Fatal("want error for missing video")
	}
}

func TestFindClips(t *testing.T) {
	core, media := newTestCore(t, &fakeVideoStore{}, fakeChecker{})
	writeVideo(t, media.VideoDir, "demo_clip2.mp4", "b")
	writeVideo(t, media.VideoDir, "demo_clip1.mp4", "a")
	writeVideo(t, media.VideoDir, "other_clip1.mp4", "c")
	writeVideo(t, media.VideoDir, "demo.mp4", "full")

	clips := core.FindClips("demo")
	if len(clips) != 2 {
		t.Fatalf("want 2 clips, got %d", len(clips))
	}
	if clips[0].Filename != "demo_clip1.mp4" || clips[1].Filename != "demo_clip2.mp4" {
		t.Fatalf("clips sorted by filename: %+v", clips)
	}
	if clips[0].Duration != 60 {
		t.Fatalf("clip duration from config, got %v", clips[0].Duration)
	}
}

func TestMarkAnalyzed(t *testing.T) {
	store := &fakeVideoStore{videos: []*Video{{Name: "demo"}}}
	core, _ := newTestCore(t, store, fakeChecker{})

	if err := core.MarkAnalyzed(context.Background(), "demo"); err != nil {
		t.Fatal(err)
	}
	if store.videos[0].AnalyzedAt == nil {
		t.Fatal("analyzed_at must be set")
	}
}
