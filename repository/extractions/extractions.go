package extractions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/imgchan/model"
)

const (
	// Schema creates the extractions table when it doesn't exist yet.
	Schema = `CREATE TABLE IF NOT EXISTS extractions (
	 id SERIAL PRIMARY KEY,
	 source TEXT NOT NULL,
	 channel INTEGER NOT NULL,
	 resolution TEXT NOT NULL,
	 input_url TEXT NOT NULL DEFAULT '',
	 output_url TEXT NOT NULL DEFAULT ''
	)`

	allExtractionsQuery   = "SELECT id, source, channel, resolution, input_url, output_url FROM extractions ORDER BY id"
	oneByIDQuery          = "SELECT id, source, channel, resolution, input_url, output_url FROM extractions WHERE id = $1"
	insertExtractionQuery = "INSERT INTO extractions (source, channel, resolution, input_url, output_url) VALUES ($1, $2, $3, $4, $5) RETURNING id"
)

var _ model.ExtractionsRepository = (*Repo)(nil)

// Repo contains db session.
type Repo struct {
	db *sql.DB
}

// NewRepo creates new Repo struct with db session.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db}
}

// Migrate creates the schema.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("error creating extractions table: %w", err)
	}
	return nil
}

// Save inserts a new extraction and returns its ID.
func (r *Repo) Save(ctx context.Context, e model.Extraction) (int, error) {
	var id int
	if err := r.db.QueryRowContext(ctx, insertExtractionQuery,
		e.Source, e.Channel, e.Resolution, e.InputURL, e.OutputURL,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("inserting of '%v' to db failed with error: %w", e, err)
	}
	return id, nil
}

// All returns all extractions.
func (r *Repo) All(ctx context.Context) ([]model.Extraction, error) {
	const errMsg = "error getting all extractions from DB: %w"
	rows, err := r.db.QueryContext(ctx, allExtractionsQuery)
	if err != nil {
		return nil, fmt.Errorf(errMsg, err)
	}
	defer rows.Close()

	res := []model.Extraction{}
	for rows.Next() {
		var e model.Extraction
		if err := rows.Scan(
			&e.ID,
			&e.Source,
			&e.Channel,
			&e.Resolution,
			&e.InputURL,
			&e.OutputURL,
		); err != nil {
			return nil, fmt.Errorf(errMsg, err)
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errMsg, err)
	}
	return res, nil
}

// GetOne returns specific extraction by it's ID. A missing row wraps sql.ErrNoRows.
func (r *Repo) GetOne(ctx context.Context, id int) (model.Extraction, error) {
	var e model.Extraction
	if err := r.db.QueryRowContext(ctx, oneByIDQuery, id).Scan(
		&e.ID, &e.Source, &e.Channel, &e.Resolution, &e.InputURL, &e.OutputURL,
	); err != nil {
		return model.Extraction{}, fmt.Errorf("error getting extraction by ID: %d, error: %w", id, err)
	}
	return e, nil
}
