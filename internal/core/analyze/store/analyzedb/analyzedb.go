package analyzedb

import (
	"context"

	"github.com/rainlabel/rainlabel/internal/core/analyze"
	"gorm.io/gorm"
)

type DB struct {
	db *gorm.DB
}

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

// AutoMigrate 按需建表
func (d *DB) AutoMigrate(ok bool) *DB {
	if ok {
		_ = d.db.AutoMigrate(&analyze.Job{})
	}
	return d
}

func (d *DB) Job() analyze.JobStorer {
	return JobDB{db: d.db}
}

type JobDB struct {
	db *gorm.DB
}

func (j JobDB) Add(ctx context.Context, job *analyze.Job) error {
	return j.db.WithContext(ctx).Create(job).Error
}

func (j JobDB) Get(ctx context.Context, id int64) (*analyze.Job, error) {
	var out analyze.Job
	if err := j.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (j JobDB) Edit(ctx context.Context, id int64, fn func(*analyze.Job)) (*analyze.Job, error) {
	var out analyze.Job
	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&out).Error; err != nil {
			return err
		}
		fn(&out)
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (j JobDB) Find(ctx context.Context, in *analyze.FindJobInput) ([]*analyze.Job, int64, error) {
	db := j.db.WithContext(ctx).Model(&analyze.Job{})
	if in.VideoName != "" {
		db = db.Where("video_name = ?", in.VideoName)
	}
	if in.Status != "" {
		db = db.Where("status = ?", in.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := in.Page
	if page <= 0 {
		page = 1
	}
	items := make([]*analyze.Job, 0, in.Limit())
	err := db.Order("created_at DESC").
		Limit(in.Limit()).
		Offset((page - 1) * in.Limit()).
		Find(&items).Error
	return items, total, err
}
