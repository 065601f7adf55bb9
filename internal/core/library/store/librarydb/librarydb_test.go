package librarydb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rainlabel/rainlabel/internal/core/library"
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

func TestVideoGet(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	videoDB := NewDB(db).Video()

	mock.ExpectQuery(`SELECT \* FROM "videos" WHERE name = \$1(.+)LIMIT \$2`).
		WithArgs("demo", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "title"}).AddRow(1, "demo", "Demo"))

	out, err := videoDB.Get(context.Background(), "demo")
	if err != nil {
		t.Fatal(err)
	}
	if out.Title != "Demo" {
		t.Fatalf("want title Demo, got %q", out.Title)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}

func TestVideoFind(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	videoDB := NewDB(db).Video()

	mock.ExpectQuery(`SELECT \* FROM "videos" ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "a").
			AddRow(2, "b"))

	items, err := videoDB.Find(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Name != "a" {
		t.Fatalf("want 2 videos ordered by name, got %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}

func TestVideoEdit(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	videoDB := NewDB(db).Video()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "videos" WHERE name = \$1(.+)LIMIT \$2`).
		WithArgs("demo", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "title"}).AddRow(1, "demo", ""))
	mock.ExpectExec(`UPDATE "videos" SET (.+) WHERE (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = videoDB.Edit(context.Background(), "demo", func(v *library.Video) {
		v.Title = "新标题"
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}
