package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"labelbot/internal/domain/entities"
)

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

type labelRow struct {
	ID            int64
	Namespace     string
	Key           string
	DefaultLocale string
	DefaultText   string
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

func (r *labelRow) scan(s scanner) error {
	return s.Scan(&r.ID, &r.Namespace, &r.Key, &r.DefaultLocale, &r.DefaultText, &r.CreatedAt, &r.UpdatedAt)
}

func (r *labelRow) toDomain() entities.Label {
	return entities.Label{
		Identifier: entities.Identifier{
			Namespace: r.Namespace,
			Key:       r.Key,
		},
		DefaultLocale: r.DefaultLocale,
		DefaultText:   r.DefaultText,
		CreatedAt:     pgtypeTimestamptzToTime(r.CreatedAt),
		UpdatedAt:     pgtypeTimestamptzToTime(r.UpdatedAt),
	}
}

type variantRow struct {
	Locale        string
	ConnectorType string
	InterfaceType string
	Alternatives  []string
	Validated     bool
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

func (r *variantRow) scan(s scanner) error {
	return s.Scan(&r.Locale, &r.ConnectorType, &r.InterfaceType, &r.Alternatives, &r.Validated, &r.CreatedAt, &r.UpdatedAt)
}

func (r *variantRow) toDomain() entities.LocalizedVariant {
	return entities.LocalizedVariant{
		VariantKey: entities.VariantKey{
			Locale:        r.Locale,
			ConnectorType: r.ConnectorType,
			InterfaceType: r.InterfaceType,
		},
		Alternatives: r.Alternatives,
		Validated:    r.Validated,
		CreatedAt:    pgtypeTimestamptzToTime(r.CreatedAt),
		UpdatedAt:    pgtypeTimestamptzToTime(r.UpdatedAt),
	}
}
