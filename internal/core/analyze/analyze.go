package analyze

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/ixugo/goddd/pkg/conc"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/jinzhu/copier"
	"github.com/rainlabel/rainlabel/internal/core/annotation"
)

// JobStorer Instantiation interface
type JobStorer interface {
	Add(ctx context.Context, job *Job) error
	Get(ctx context.Context, id int64) (*Job, error)
	Edit(ctx context.Context, id int64, fn func(*Job)) (*Job, error)
	Find(ctx context.Context, in *FindJobInput) ([]*Job, int64, error)
}

// Storer data persistence
type Storer interface {
	Job() JobStorer
}

// Annotator 一次性视频分析调用，产出完整标注文档
type Annotator interface {
	Annotate(ctx context.Context, filePath string) (*annotation.Document, error)
}

// VideoResolver 解析视频文件路径并回写分析时间，由 library.Core 实现
type VideoResolver interface {
	ResolvePath(name string) (path, filename string, err error)
	MarkAnalyzed(ctx context.Context, name string) error
}

// Core business domain
type Core struct {
	store     Storer
	annotator Annotator
	videos    VideoResolver
	running   *conc.Map[string, struct{}]
	timeout   time.Duration
	log       *slog.Logger
}

type Option func(*Core)

// WithTimeout 单次分析超时，<=0 表示不限制
func WithTimeout(d time.Duration) Option {
	return func(c *Core) {
		c.timeout = d
	}
}

// NewCore create business domain
func NewCore(store Storer, annotator Annotator, videos VideoResolver, opts ...Option) Core {
	c := Core{
		store:     store,
		annotator: annotator,
		videos:    videos,
		running:   conc.NewMap[string, struct{}](),
		log:       slog.With("core", "analyze"),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// StartJob 发起一次分析任务
// 同一视频同时只允许一个任务；任务异步执行，完成后写旁挂文件
func (c Core) StartJob(ctx context.Context, in *StartJobInput) (*Job, error) {
	path, _, err := c.videos.ResolvePath(in.VideoName)
	if err != nil {
		return nil, err
	}
	if _, ok := c.running.Load(in.VideoName); ok {
		return nil, reason.ErrBadRequest.Withf("video[%s] is already being analyzed", in.VideoName)
	}

	var job Job
	if err := copier.Copy(&job, in); err != nil {
		c.log.ErrorContext(ctx, "Copy", "err", err)
	}
	job.VideoName = in.VideoName
	job.Status = StatusPending
	if err := c.store.Job().Add(ctx, &job); err != nil {
		return nil, reason.ErrDB.Withf("Add err[%s]", err.Error())
	}

	c.running.Store(in.VideoName, struct{}{})
	go c.run(job.ID, in.VideoName, path)
	return &job, nil
}

// run 执行分析并落盘，任何失败只标记任务，不影响服务
func (c Core) run(id int64, videoName, path string) {
	defer c.running.Delete(videoName)

	ctx := context.Background()
	cancel := func() {}
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	defer cancel()

	if _, err := c.store.Job().Edit(ctx, id, func(j *Job) {
		now := orm.Now()
		j.Status = StatusRunning
		j.StartedAt = &now
	}); err != nil {
		c.log.Error("更新任务状态失败", "id", id, "err", err)
	}

	doc, err := c.annotator.Annotate(ctx, path)
	if err != nil {
		c.log.Error("视频分析失败", "video", videoName, "err", err)
		c.finish(id, func(j *Job) {
			j.Status = StatusFailed
			j.Error = err.Error()
		})
		return
	}

	sidecar := path + ".json"
	if err := writeSidecar(sidecar, doc); err != nil {
		c.log.Error("写入标注文件失败", "path", sidecar, "err", err)
		c.finish(id, func(j *Job) {
			j.Status = StatusFailed
			j.Error = err.Error()
		})
		return
	}

	c.finish(id, func(j *Job) {
		j.Status = StatusDone
		j.SidecarPath = sidecar
	})
	if err := c.videos.MarkAnalyzed(ctx, videoName); err != nil {
		c.log.Warn("回写分析时间失败", "video", videoName, "err", err)
	}
	c.log.Info("视频分析完成", "video", videoName, "sidecar", sidecar)
}

func (c Core) finish(id int64, fn func(*Job)) {
	now := orm.Now()
	if _, err := c.store.Job().Edit(context.Background(), id, func(j *Job) {
		fn(j)
		j.FinishedAt = &now
	}); err != nil {
		c.log.Error("更新任务状态失败", "id", id, "err", err)
	}
}

// GetJob Query a single object
func (c Core) GetJob(ctx context.Context, id int64) (*Job, error) {
	job, err := c.store.Job().Get(ctx, id)
	if err != nil {
		if orm.IsErrRecordNotFound(err) {
			return nil, reason.ErrNotFound.Withf("Get id[%d] err[%s]", id, err.Error())
		}
		return nil, reason.ErrDB.Withf("Get id[%d] err[%s]", id, err.Error())
	}
	return job, nil
}

// FindJobs 分页查询任务列表
func (c Core) FindJobs(ctx context.Context, in *FindJobInput) ([]*Job, int64, error) {
	items, total, err := c.store.Job().Find(ctx, in)
	if err != nil {
		return nil, 0, reason.ErrDB.Withf("Find in[%+v] err[%s]", in, err.Error())
	}
	return items, total, nil
}

func writeSidecar(path string, doc *annotation.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
