package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

// SQLiteRepository is a CatalogProvider backed by SQLite or Turso. Rows keep
// their seed order through the seq column.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS authors (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		bio TEXT,
		avatar_ref TEXT
	);

	CREATE TABLE IF NOT EXISTS content_items (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		author_id TEXT NOT NULL,
		date TEXT NOT NULL,
		category TEXT NOT NULL,
		tags JSON,
		type TEXT NOT NULL,
		price INTEGER DEFAULT 0,
		view_count INTEGER DEFAULT 0,
		reaction_counts JSON,
		FOREIGN KEY(author_id) REFERENCES authors(id)
	);
	CREATE INDEX IF NOT EXISTS idx_content_items_author ON content_items(author_id);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		price INTEGER DEFAULT 0,
		alt_price INTEGER DEFAULT 0,
		image_ref TEXT,
		author_name TEXT,
		kind TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		timestamp TEXT NOT NULL,
		read INTEGER DEFAULT 0,
		severity TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reward_tiers (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		min_points INTEGER NOT NULL,
		perks JSON
	);
	`
	_, err := db.Exec(query)
	return err
}

// Seed replaces the stored catalog with cat in a single transaction.
func (r *SQLiteRepository) Seed(ctx context.Context, cat *domain.Catalog) error {
	if err := cat.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"content_items", "authors", "products", "notifications", "reward_tiers"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, a := range cat.Authors {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO authors (id, seq, name, bio, avatar_ref) VALUES (?, ?, ?, ?, ?)`,
			a.ID, i, a.Name, a.Bio, a.AvatarRef)
		if err != nil {
			return fmt.Errorf("inserting author %q: %w", a.ID, err)
		}
	}

	for i, it := range cat.Items {
		tagsJSON, err := json.Marshal(it.Tags)
		if err != nil {
			return err
		}
		countsJSON, err := json.Marshal(it.ReactionCounts)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO content_items (id, seq, title, description, author_id, date, category, tags, type, price, view_count, reaction_counts)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ID, i, it.Title, it.Description, it.AuthorID, it.Date.String(), string(it.Category),
			string(tagsJSON), string(it.Type), it.Price, it.ViewCount, string(countsJSON))
		if err != nil {
			return fmt.Errorf("inserting item %q: %w", it.ID, err)
		}
	}

	for i, p := range cat.Products {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, seq, name, description, price, alt_price, image_ref, author_name, kind)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, p.Name, p.Description, p.Price, p.AltPrice, p.ImageRef, p.AuthorName, string(p.Kind))
		if err != nil {
			return fmt.Errorf("inserting product %q: %w", p.ID, err)
		}
	}

	for i, n := range cat.Notifications {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notifications (id, seq, title, description, timestamp, read, severity)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			n.ID, i, n.Title, n.Description, n.Timestamp.UTC().Format(time.RFC3339), n.Read, string(n.Severity))
		if err != nil {
			return fmt.Errorf("inserting notification %q: %w", n.ID, err)
		}
	}

	for i, t := range cat.RewardTiers {
		perksJSON, err := json.Marshal(t.Perks)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO reward_tiers (id, seq, name, min_points, perks) VALUES (?, ?, ?, ?, ?)`,
			t.ID, i, t.Name, t.MinPoints, string(perksJSON))
		if err != nil {
			return fmt.Errorf("inserting reward tier %q: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// IsEmpty reports whether no authors have been seeded yet.
func (r *SQLiteRepository) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM authors`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// decodeJSON treats a NULL column as empty.
func decodeJSON(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

const itemColumns = `id, title, description, author_id, date, category, tags, type, price, view_count, reaction_counts`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (domain.ContentItem, error) {
	var (
		it                   domain.ContentItem
		date, category, typ  string
		description          sql.NullString
		tagsJSON, countsJSON []byte
	)
	if err := s.Scan(&it.ID, &it.Title, &description, &it.AuthorID, &date, &category,
		&tagsJSON, &typ, &it.Price, &it.ViewCount, &countsJSON); err != nil {
		return it, err
	}
	it.Description = description.String

	var err error
	if it.Date, err = domain.ParseDate(date); err != nil {
		return it, err
	}
	if it.Category, err = domain.ParseCategory(category); err != nil {
		return it, err
	}
	if it.Type, err = domain.ParseContentType(typ); err != nil {
		return it, err
	}
	if err := decodeJSON(tagsJSON, &it.Tags); err != nil {
		return it, fmt.Errorf("content item %q: %w", it.ID, &domain.ParseError{Field: "tags", Value: string(tagsJSON), Err: err})
	}
	it.ReactionCounts = domain.ReactionCounts{}
	if err := decodeJSON(countsJSON, &it.ReactionCounts); err != nil {
		return it, fmt.Errorf("content item %q: %w", it.ID, &domain.ParseError{Field: "reaction_counts", Value: string(countsJSON), Err: err})
	}
	return it, nil
}

func (r *SQLiteRepository) ListItems(ctx context.Context) ([]domain.ContentItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM content_items ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.ContentItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) GetItem(ctx context.Context, id string) (*domain.ContentItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM content_items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *SQLiteRepository) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, bio, avatar_ref FROM authors ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []domain.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func scanAuthor(s scanner) (domain.Author, error) {
	var a domain.Author
	var bio, avatar sql.NullString
	if err := s.Scan(&a.ID, &a.Name, &bio, &avatar); err != nil {
		return a, err
	}
	a.Bio, a.AvatarRef = bio.String, avatar.String
	return a, nil
}

func (r *SQLiteRepository) GetAuthor(ctx context.Context, id string) (*domain.Author, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, bio, avatar_ref FROM authors WHERE id = ?`, id)
	a, err := scanAuthor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const productColumns = `id, name, description, price, alt_price, image_ref, author_name, kind`

func scanProduct(s scanner) (domain.Product, error) {
	var p domain.Product
	var description, image, author sql.NullString
	var kind string
	if err := s.Scan(&p.ID, &p.Name, &description, &p.Price, &p.AltPrice, &image, &author, &kind); err != nil {
		return p, err
	}
	p.Description, p.ImageRef, p.AuthorName = description.String, image.String, author.String
	var err error
	p.Kind, err = domain.ParseProductKind(kind)
	return p, err
}

func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, timestamp, read, severity FROM notifications ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		var description sql.NullString
		var ts, severity string
		if err := rows.Scan(&n.ID, &n.Title, &description, &ts, &n.Read, &severity); err != nil {
			return nil, err
		}
		n.Description = description.String
		if n.Timestamp, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, &domain.ParseError{Field: "timestamp", Value: ts, Err: err}
		}
		if n.Severity, err = domain.ParseSeverity(severity); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *SQLiteRepository) ListRewardTiers(ctx context.Context) ([]domain.RewardTier, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, min_points, perks FROM reward_tiers ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiers := []domain.RewardTier{}
	for rows.Next() {
		var t domain.RewardTier
		var perksJSON []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.MinPoints, &perksJSON); err != nil {
			return nil, err
		}
		if err := decodeJSON(perksJSON, &t.Perks); err != nil {
			return nil, fmt.Errorf("reward tier %q: %w", t.ID, &domain.ParseError{Field: "perks", Value: string(perksJSON), Err: err})
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

func (r *SQLiteRepository) Dump(ctx context.Context) (*domain.Catalog, error) {
	var (
		cat domain.Catalog
		err error
	)
	if cat.Authors, err = r.ListAuthors(ctx); err != nil {
		return nil, err
	}
	if cat.Items, err = r.ListItems(ctx); err != nil {
		return nil, err
	}
	if cat.Products, err = r.ListProducts(ctx); err != nil {
		return nil, err
	}
	if cat.Notifications, err = r.ListNotifications(ctx); err != nil {
		return nil, err
	}
	if cat.RewardTiers, err = r.ListRewardTiers(ctx); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Ensure interface compliance
var _ ports.CatalogProvider = (*SQLiteRepository)(nil)
