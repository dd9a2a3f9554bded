//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_reviews/internal/domain"
	mysqlrepo "hotel_reviews/internal/storage/mysql"
)

const schemaSQL = "CREATE TABLE `Hotels` (" +
	" `id` BIGINT PRIMARY KEY AUTO_INCREMENT," +
	" `GlobalPropertyName` VARCHAR(255) NOT NULL" +
	")"

const reviewsSQL = "CREATE TABLE `Reviews` (" +
	" `id` BIGINT PRIMARY KEY AUTO_INCREMENT," +
	" `HotelID` BIGINT NOT NULL," +
	" `ReviewerName` VARCHAR(255) NOT NULL," +
	" `ReviewSubject` VARCHAR(512) NOT NULL," +
	" `ReviewContent` TEXT NOT NULL," +
	" `ReviewDate` DATE NOT NULL," +
	" `OverallRating` DOUBLE NOT NULL," +
	" `CleanlinessRating` DOUBLE NULL," +
	" `LocationRating` DOUBLE NULL," +
	" `ServiceRating` DOUBLE NULL," +
	" `ValueRating` DOUBLE NULL," +
	" `createdAt` TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP," +
	" `updatedAt` TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP," +
	" KEY `idx_reviews_hotel` (`HotelID`, `ReviewDate`)" +
	")"

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotels_info",
		},
	}, func(cfg *docker.HostConfig) {
		cfg.AutoRemove = true
		cfg.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("cannot start mysql container: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(res) })

	dsn := fmt.Sprintf("root:root@tcp(localhost:%s)/hotels_info?parseTime=true&loc=UTC", res.GetPort("3306/tcp"))
	var db *sql.DB
	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		var err error
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return err
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect to mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{schemaSQL, reviewsSQL} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func pf(f float64) *float64 { return &f }

func review(content string, date time.Time) domain.Review {
	return domain.Review{
		Author:      "guest",
		Subject:     "No Title",
		Content:     content,
		Date:        date,
		Rating:      8.0,
		Cleanliness: pf(8.5),
	}
}

func TestRepo_EndToEnd(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if _, err := db.Exec("INSERT INTO `Hotels` (`GlobalPropertyName`) VALUES (?), (?)",
		"Grand Plaza Hotel", "Seaside Resort"); err != nil {
		t.Fatalf("seed hotels: %v", err)
	}

	t.Run("find hotel by name is case-insensitive substring", func(t *testing.T) {
		h, err := repo.FindHotelByName(ctx, "grand plaza")
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if h.Name != "Grand Plaza Hotel" {
			t.Fatalf("unexpected hotel: %+v", h)
		}

		if _, err := repo.FindHotelByName(ctx, "nonexistent"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	h, err := repo.FindHotelByName(ctx, "Grand")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	day := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)

	t.Run("replace inserts the new set", func(t *testing.T) {
		rs := []domain.Review{review("first", day), review("second", day.AddDate(0, 0, 1))}
		for i := range rs {
			rs[i].HotelID = h.ID
		}
		if err := repo.ReplaceReviews(ctx, h.ID, rs); err != nil {
			t.Fatalf("replace: %v", err)
		}

		got, err := repo.ListReviews(ctx, h.ID, 50)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("reviews: %d", len(got))
		}
		// newest first
		if got[0].Content != "second" {
			t.Fatalf("order: %q first", got[0].Content)
		}
		if got[0].Cleanliness == nil || *got[0].Cleanliness != 8.5 {
			t.Fatalf("cleanliness: %v", got[0].Cleanliness)
		}
		if got[0].Location != nil {
			t.Fatalf("absent aggregate should be nil, got %v", *got[0].Location)
		}
	})

	t.Run("replace is a full replace, not a merge", func(t *testing.T) {
		rs := []domain.Review{review("third", day)}
		rs[0].HotelID = h.ID
		if err := repo.ReplaceReviews(ctx, h.ID, rs); err != nil {
			t.Fatalf("replace: %v", err)
		}
		got, err := repo.ListReviews(ctx, h.ID, 50)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].Content != "third" {
			t.Fatalf("expected only the new set, got %+v", got)
		}
	})

	t.Run("replacing with an empty set leaves zero reviews", func(t *testing.T) {
		if err := repo.ReplaceReviews(ctx, h.ID, nil); err != nil {
			t.Fatalf("replace: %v", err)
		}
		got, err := repo.ListReviews(ctx, h.ID, 50)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected zero reviews, got %d", len(got))
		}
	})

	t.Run("other hotels are untouched", func(t *testing.T) {
		other, err := repo.FindHotelByName(ctx, "seaside")
		if err != nil {
			t.Fatalf("resolve other: %v", err)
		}
		rs := []domain.Review{review("other hotel review", day)}
		rs[0].HotelID = other.ID
		if err := repo.ReplaceReviews(ctx, other.ID, rs); err != nil {
			t.Fatalf("replace: %v", err)
		}
		if err := repo.ReplaceReviews(ctx, h.ID, nil); err != nil {
			t.Fatalf("replace first hotel: %v", err)
		}
		got, err := repo.ListReviews(ctx, other.ID, 50)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("other hotel's reviews affected: %d", len(got))
		}
	})
}
