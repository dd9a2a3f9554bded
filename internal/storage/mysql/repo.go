package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hotel_reviews/internal/domain"
)

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullF64(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) FindHotelByName(ctx context.Context, hint string) (domain.Hotel, error) {
	row := r.db.QueryRowContext(ctx, findHotelByNameSQL, "%"+hint+"%")
	var h domain.Hotel
	if err := row.Scan(&h.ID, &h.Name); err != nil {
		if err == sql.ErrNoRows {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	return h, nil
}

// ReplaceReviews swaps the hotel's entire review set inside one transaction:
// delete everything, insert the new rows, commit. Any failure rolls the
// whole replacement back so old and new rows never mix. Retries must re-run
// the full delete+insert, never append.
func (r *Repo) ReplaceReviews(ctx context.Context, hotelID int64, rs []domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteReviewsSQL, hotelID); err != nil {
		return fmt.Errorf("delete reviews for hotel %d: %w", hotelID, err)
	}

	if len(rs) > 0 {
		values := make([]string, 0, len(rs))
		args := make([]any, 0, len(rs)*10)
		for _, rv := range rs {
			values = append(values, insertReviewsRow)
			args = append(args,
				hotelID,
				rv.Author,
				rv.Subject,
				rv.Content,
				rv.Date,
				rv.Rating,
				valF64(rv.Cleanliness),
				valF64(rv.Location),
				valF64(rv.Service),
				valF64(rv.Value),
			)
		}
		sqlStr := insertReviewsPrefix + strings.Join(values, ",")
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("insert reviews for hotel %d: %w", hotelID, err)
		}
	}

	return tx.Commit()
}

func (r *Repo) ListReviews(ctx context.Context, hotelID int64, limit int) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, hotelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var cl, lo, se, va sql.NullFloat64
		if err := rows.Scan(
			&rv.ID,
			&rv.HotelID,
			&rv.Author,
			&rv.Subject,
			&rv.Content,
			&rv.Date,
			&rv.Rating,
			&cl, &lo, &se, &va,
		); err != nil {
			return nil, err
		}
		rv.Cleanliness = nullF64(cl)
		rv.Location = nullF64(lo)
		rv.Service = nullF64(se)
		rv.Value = nullF64(va)
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
