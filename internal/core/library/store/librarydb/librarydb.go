package librarydb

import (
	"context"

	"github.com/rainlabel/rainlabel/internal/core/library"
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
		_ = d.db.AutoMigrate(&library.Video{})
	}
	return d
}

func (d *DB) Video() library.VideoStorer {
	return VideoDB{db: d.db}
}

type VideoDB struct {
	db *gorm.DB
}

func (v VideoDB) Find(ctx context.Context) ([]*library.Video, error) {
	items := make([]*library.Video, 0, 8)
	err := v.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (v VideoDB) Get(ctx context.Context, name string) (*library.Video, error) {
	var out library.Video
	if err := v.db.WithContext(ctx).Where("name = ?", name).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (v VideoDB) FirstOrCreate(ctx context.Context, video *library.Video) error {
	return v.db.WithContext(ctx).FirstOrCreate(video, "name = ?", video.Name).Error
}

func (v VideoDB) Edit(ctx context.Context, name string, fn func(*library.Video)) error {
	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var out library.Video
		if err := tx.Where("name = ?", name).First(&out).Error; err != nil {
			return err
		}
		fn(&out)
		return tx.Save(&out).Error
	})
}
