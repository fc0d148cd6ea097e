package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labelbot/internal/domain"
	"labelbot/internal/domain/entities"
	"labelbot/internal/ports/output"
)

var _ output.LabelStore = (*LabelStore)(nil)

// LabelStore persists labels in PostgreSQL. Creation on first miss relies on
// the UNIQUE (namespace, key) constraint and ON CONFLICT DO NOTHING, so
// concurrent first-use converges on a single row without application locks.
type LabelStore struct {
	pool *pgxpool.Pool
}

func NewLabelStore(pool *pgxpool.Pool) *LabelStore {
	return &LabelStore{pool: pool}
}

// storeErr tags infrastructure failures so callers can detect an unavailable
// store while keeping the underlying pgx error in the chain.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStoreUnavailable, err))
}

func (s *LabelStore) GetLabel(ctx context.Context, id entities.Identifier) (*entities.Label, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, namespace, key, default_locale, default_text, created_at, updated_at
		 FROM labels WHERE namespace = $1 AND key = $2`,
		id.Namespace, id.Key)

	var lr labelRow
	if err := lr.scan(row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLabelNotFound
		}
		return nil, storeErr("get label", err)
	}

	label := lr.toDomain()
	if err := s.attachVariants(ctx, lr.ID, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

func (s *LabelStore) attachVariants(ctx context.Context, labelID int64, label *entities.Label) error {
	rows, err := s.pool.Query(ctx,
		`SELECT locale, connector_type, interface_type, alternatives, validated, created_at, updated_at
		 FROM label_variants WHERE label_id = $1
		 ORDER BY locale, connector_type, interface_type`,
		labelID)
	if err != nil {
		return storeErr("get variants", err)
	}
	defer rows.Close()

	for rows.Next() {
		var vr variantRow
		if err := vr.scan(rows); err != nil {
			return storeErr("scan variant", err)
		}
		label.Variants = append(label.Variants, vr.toDomain())
	}
	if err := rows.Err(); err != nil {
		return storeErr("get variants", err)
	}
	return nil
}

func (s *LabelStore) UpsertIfAbsent(ctx context.Context, label *entities.Label) (*entities.Label, bool, error) {
	for i := range label.Variants {
		if len(label.Variants[i].Alternatives) == 0 {
			return nil, false, domain.ErrNoAlternatives
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, false, storeErr("upsert label", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO labels (namespace, key, default_locale, default_text)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (namespace, key) DO NOTHING
		 RETURNING id, namespace, key, default_locale, default_text, created_at, updated_at`,
		label.Namespace, label.Key, label.DefaultLocale, label.DefaultText)

	var lr labelRow
	if err := lr.scan(row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race (or the row predates us): fetch the winner.
			existing, gerr := s.GetLabel(ctx, label.Identifier)
			if gerr != nil {
				return nil, false, gerr
			}
			return existing, false, nil
		}
		return nil, false, storeErr("upsert label", err)
	}

	persisted := lr.toDomain()
	for i := range label.Variants {
		v := &label.Variants[i]
		vrow := tx.QueryRow(ctx,
			`INSERT INTO label_variants (label_id, locale, connector_type, interface_type, alternatives, validated)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING locale, connector_type, interface_type, alternatives, validated, created_at, updated_at`,
			lr.ID, v.Locale, v.ConnectorType, v.InterfaceType, v.Alternatives, v.Validated)

		var vr variantRow
		if err := vr.scan(vrow); err != nil {
			return nil, false, storeErr("insert variant", err)
		}
		persisted.Variants = append(persisted.Variants, vr.toDomain())
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, storeErr("upsert label", err)
	}
	return &persisted, true, nil
}

func (s *LabelStore) FindVariant(ctx context.Context, id entities.Identifier, key entities.VariantKey) (*entities.LocalizedVariant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT v.locale, v.connector_type, v.interface_type, v.alternatives, v.validated, v.created_at, v.updated_at
		 FROM label_variants v
		 JOIN labels l ON l.id = v.label_id
		 WHERE l.namespace = $1 AND l.key = $2
		   AND v.locale = $3 AND v.connector_type = $4 AND v.interface_type = $5`,
		id.Namespace, id.Key, key.Locale, key.ConnectorType, key.InterfaceType)

	var vr variantRow
	if err := vr.scan(row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVariantNotFound
		}
		return nil, storeErr("find variant", err)
	}
	v := vr.toDomain()
	return &v, nil
}

func (s *LabelStore) SaveVariant(ctx context.Context, id entities.Identifier, variant *entities.LocalizedVariant) error {
	if len(variant.Alternatives) == 0 {
		return domain.ErrNoAlternatives
	}

	var labelID int64
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM labels WHERE namespace = $1 AND key = $2`,
		id.Namespace, id.Key).Scan(&labelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrLabelNotFound
		}
		return storeErr("save variant", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO label_variants (label_id, locale, connector_type, interface_type, alternatives, validated)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (label_id, locale, connector_type, interface_type)
		 DO UPDATE SET alternatives = EXCLUDED.alternatives,
		               validated    = EXCLUDED.validated,
		               updated_at   = now()`,
		labelID, variant.Locale, variant.ConnectorType, variant.InterfaceType,
		variant.Alternatives, variant.Validated)
	if err != nil {
		return storeErr("save variant", err)
	}
	return nil
}

func (s *LabelStore) ListLabels(ctx context.Context, namespace string) ([]entities.Label, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, namespace, key, default_locale, default_text, created_at, updated_at
		 FROM labels WHERE namespace = $1 ORDER BY key`,
		namespace)
	if err != nil {
		return nil, storeErr("list labels", err)
	}
	defer rows.Close()

	var out []entities.Label
	var ids []int64
	for rows.Next() {
		var lr labelRow
		if err := lr.scan(rows); err != nil {
			return nil, storeErr("scan label", err)
		}
		out = append(out, lr.toDomain())
		ids = append(ids, lr.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list labels", err)
	}

	for i := range out {
		if err := s.attachVariants(ctx, ids[i], &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
