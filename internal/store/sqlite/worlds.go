package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/worldmarkapp/worldmark-server/internal/domain"
	"github.com/worldmarkapp/worldmark-server/internal/store"
)

// worldColumns is the ordered list of columns selected in world queries.
// Must match the scan order in scanWorld.
const worldColumns = `id, user_id, created_at, updated_at, name, url,
	description, memo, image_url, image_blurhash, published`

// scanWorld scans a sql.Row (or sql.Rows via its Scan method) into a domain.World.
// Tags are left nil; callers attach them separately.
func scanWorld(scanner interface{ Scan(dest ...any) error }) (*domain.World, error) {
	var w domain.World

	var (
		createdAt string
		updatedAt string
		published int
	)

	err := scanner.Scan(
		&w.ID,
		&w.UserID,
		&createdAt,
		&updatedAt,
		&w.Name,
		&w.URL,
		&w.Description,
		&w.Memo,
		&w.ImageURL,
		&w.ImageBlurhash,
		&published,
	)
	if err != nil {
		return nil, err
	}

	w.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	w.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	w.Published = published != 0

	return &w, nil
}

// CreateWorld inserts a new world into the database.
// Returns store.ErrAlreadyExists if the world ID already exists.
func (s *Store) CreateWorld(ctx context.Context, world *domain.World) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO worlds (
			id, user_id, created_at, updated_at, name, url,
			description, memo, image_url, image_blurhash, published
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		world.ID,
		world.UserID,
		formatTime(world.CreatedAt),
		formatTime(world.UpdatedAt),
		world.Name,
		world.URL,
		world.Description,
		world.Memo,
		world.ImageURL,
		world.ImageBlurhash,
		boolToInt(world.Published),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetWorld retrieves a world by ID with its tags attached.
// Returns store.ErrNotFound if the world does not exist.
func (s *Store) GetWorld(ctx context.Context, id string) (*domain.World, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+worldColumns+` FROM worlds WHERE id = ?`, id)

	w, err := scanWorld(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	w.Tags, err = s.GetWorldTags(ctx, id)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorldsByUser returns all worlds owned by a user, tags attached,
// ordered by name.
func (s *Store) ListWorldsByUser(ctx context.Context, userID string) ([]*domain.World, error) {
	return s.listWorlds(ctx,
		`SELECT `+worldColumns+` FROM worlds WHERE user_id = ? ORDER BY name COLLATE NOCASE ASC`,
		userID)
}

// ListPublishedWorlds returns all published worlds, tags attached,
// ordered by name.
func (s *Store) ListPublishedWorlds(ctx context.Context) ([]*domain.World, error) {
	return s.listWorlds(ctx,
		`SELECT `+worldColumns+` FROM worlds WHERE published = 1 ORDER BY name COLLATE NOCASE ASC`)
}

// listWorlds runs a world query and batch-attaches tags to the results.
func (s *Store) listWorlds(ctx context.Context, query string, args ...any) ([]*domain.World, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var worlds []*domain.World
	for rows.Next() {
		w, err := scanWorld(rows)
		if err != nil {
			return nil, err
		}
		worlds = append(worlds, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if worlds == nil {
		return []*domain.World{}, nil
	}

	if err := s.attachTags(ctx, worlds); err != nil {
		return nil, err
	}
	return worlds, nil
}

// attachTags loads tags for a batch of worlds in one query.
func (s *Store) attachTags(ctx context.Context, worlds []*domain.World) error {
	if len(worlds) == 0 {
		return nil
	}

	placeholders := make([]string, len(worlds))
	args := make([]any, len(worlds))
	byID := make(map[string]*domain.World, len(worlds))
	for i, w := range worlds {
		placeholders[i] = "?"
		args[i] = w.ID
		byID[w.ID] = w
		w.Tags = []*domain.Tag{}
	}

	query := `
		SELECT wt.world_id, t.id, t.name, t.slug, t.created_at, t.updated_at
		FROM world_tags wt
		JOIN tags t ON t.id = wt.tag_id
		WHERE wt.world_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY t.name COLLATE NOCASE ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query world tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var worldID string
		var t domain.Tag
		var createdAt, updatedAt string

		err := rows.Scan(&worldID, &t.ID, &t.Name, &t.Slug, &createdAt, &updatedAt)
		if err != nil {
			return fmt.Errorf("scan world tag: %w", err)
		}
		t.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return err
		}
		t.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return err
		}

		if w, ok := byID[worldID]; ok {
			w.Tags = append(w.Tags, &t)
		}
	}
	return rows.Err()
}

// UpdateWorld performs a full row update on an existing world.
// Tag associations are managed separately via SetWorldTags.
// Returns store.ErrNotFound if the world does not exist.
func (s *Store) UpdateWorld(ctx context.Context, world *domain.World) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE worlds SET
			user_id = ?,
			created_at = ?,
			updated_at = ?,
			name = ?,
			url = ?,
			description = ?,
			memo = ?,
			image_url = ?,
			image_blurhash = ?,
			published = ?
		WHERE id = ?`,
		world.UserID,
		formatTime(world.CreatedAt),
		formatTime(world.UpdatedAt),
		world.Name,
		world.URL,
		world.Description,
		world.Memo,
		world.ImageURL,
		world.ImageBlurhash,
		boolToInt(world.Published),
		world.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteWorld performs a hard delete of a world by ID.
// Tag associations are removed by the ON DELETE CASCADE on world_tags.
// Returns store.ErrNotFound if the world does not exist.
func (s *Store) DeleteWorld(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM worlds WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
