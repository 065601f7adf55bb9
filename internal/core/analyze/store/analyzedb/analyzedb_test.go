package analyzedb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/rainlabel/rainlabel/internal/core/analyze"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func generateMockDB() (*gorm.DB, sqlmock.Sqlmock, error) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, err
	}
	return db, mock, nil
}

func TestJobGet(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	jobDB := NewDB(db).Job()

	mock.ExpectQuery(`SELECT \* FROM "analyze_jobs" WHERE id = \$1(.+)LIMIT \$2`).
		WithArgs(int64(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "video_name", "status"}).
			AddRow(7, "demo", analyze.StatusDone))

	out, err := jobDB.Get(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != analyze.StatusDone {
		t.Fatalf("want status done, got %q", out.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}

func TestJobFind(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	jobDB := NewDB(db).Job()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "analyze_jobs" WHERE video_name = \$1`).
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "analyze_jobs" WHERE video_name = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("demo", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "video_name", "status"}).
			AddRow(1, "demo", analyze.StatusPending))

	in := analyze.FindJobInput{VideoName: "demo"}
	in.PagerFilter = web.PagerFilter{Page: 1, Size: 10}
	items, total, err := jobDB.Find(context.Background(), &in)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("want 1 job, got total=%d items=%d", total, len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}
