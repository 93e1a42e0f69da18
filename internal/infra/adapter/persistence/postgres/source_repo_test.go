package postgres_test

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/infra/adapter/persistence/postgres"
)

/* ──────────────────────────────── helpers ──────────────────────────────── */

func mustSource(t *testing.T, uri string, interval int) *entity.Source {
	t.Helper()
	src, err := entity.NewSource(uri, interval)
	if err != nil {
		t.Fatalf("NewSource(%q) err=%v", uri, err)
	}
	return src
}

func rows(srcs ...*entity.Source) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"uri", "refresh_interval_minutes"})
	for _, s := range srcs {
		r.AddRow(s.URI.String(), s.RefreshIntervalMinutes)
	}
	return r
}

var urlComparer = cmp.Comparer(func(a, b *url.URL) bool { return a.String() == b.String() })

/* ──────────────────────────────── 1. List ──────────────────────────────── */

func TestSourceRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := []*entity.Source{
		mustSource(t, "https://www.wired.com/feed/category/science/latest/rss", 5),
		mustSource(t, "https://www.techrepublic.com/rssfeeds/articles/", 10),
	}
	mock.ExpectQuery(`FROM feed_sources`).WillReturnRows(rows(want...))

	repo := postgres.NewSourceRepo(db)
	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if diff := cmp.Diff(want, got, urlComparer); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_List_CorruptRow(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM feed_sources`).
		WillReturnRows(sqlmock.NewRows([]string{"uri", "refresh_interval_minutes"}).AddRow("https://a.example/feed", 0))

	repo := postgres.NewSourceRepo(db)
	if _, err := repo.List(context.Background()); !errors.Is(err, entity.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

/* ──────────────────────────────── 2. Get ──────────────────────────────── */

func TestSourceRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := mustSource(t, "HTTP://A.EXAMPLE/FEED", 5)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT uri, refresh_interval_minutes`)).
		WithArgs("http://a.example/feed").
		WillReturnRows(rows(want))

	repo := postgres.NewSourceRepo(db)
	got, err := repo.Get(context.Background(), "http://a.example/feed")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got, urlComparer); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM feed_sources`).
		WithArgs("http://missing.example/feed").
		WillReturnRows(sqlmock.NewRows([]string{"uri", "refresh_interval_minutes"}))

	repo := postgres.NewSourceRepo(db)
	if _, err := repo.Get(context.Background(), "http://missing.example/feed"); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

/* ──────────────────────────────── 3. Upsert ──────────────────────────────── */

func TestSourceRepo_Upsert(t *testing.T) {
	tests := []struct {
		name        string
		inserted    bool
		wantCreated bool
	}{
		{name: "insert", inserted: true, wantCreated: true},
		{name: "update", inserted: false, wantCreated: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, _ := sqlmock.New()
			defer func() { _ = db.Close() }()

			src := mustSource(t, "https://Example.com/Feed", 3)
			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO feed_sources`)).
				WithArgs("https://example.com/feed", "https://Example.com/Feed", 3).
				WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(tt.inserted))

			repo := postgres.NewSourceRepo(db)
			created, err := repo.Upsert(context.Background(), src)
			if err != nil {
				t.Fatalf("Upsert err=%v", err)
			}
			if created != tt.wantCreated {
				t.Fatalf("created = %v, want %v", created, tt.wantCreated)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

/* ──────────────────────────────── 4. Delete ──────────────────────────────── */

func TestSourceRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM feed_sources`)).
		WithArgs("https://example.com/feed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM feed_sources`)).
		WithArgs("https://example.com/feed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := postgres.NewSourceRepo(db)
	if err := repo.Delete(context.Background(), "https://example.com/feed"); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := repo.Delete(context.Background(), "https://example.com/feed"); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound on second delete, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
