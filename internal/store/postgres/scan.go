package postgres

import "github.com/alfredjeanlab/blogd/internal/model"

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanPost scans a single row into a model.BlogPost.
// The row must contain columns in the order defined by postColumns.
func scanPost(row scannable) (*model.BlogPost, error) {
	var p model.BlogPost
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.Published); err != nil {
		return nil, err
	}
	return &p, nil
}
