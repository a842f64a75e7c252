package sqlite

import (
	"context"
	"fmt"

	"github.com/partydeck/partydeck-server/internal/domain"
)

// categoryItemColumns must match the scan order in scanCategoryItem.
const categoryItemColumns = `id, name, sort_order, is_active, created_at, updated_at`

// categoryQueries is the fixed SQL for one category table, built once at
// Open from the compile-time table name.
type categoryQueries struct {
	named bool // rows are plain {name, sort_order, is_active}

	list       string
	listActive string
	get        string
	insert     string
	update     string // followed by a set clause and " WHERE id = ?"
	delete     string
	deleteAll  string
	random     string
	activeIDs  string
	count      string
}

func buildCategoryQueries() map[domain.Category]categoryQueries {
	named := make(map[domain.Category]bool)
	for _, c := range domain.NamedCategories() {
		named[c] = true
	}

	out := make(map[domain.Category]categoryQueries)
	for _, c := range domain.AllCategories() {
		t := c.Table()
		order := "sort_order, id"
		if !c.HasSortOrder() {
			order = "id"
		}
		q := categoryQueries{
			named:     named[c],
			delete:    "DELETE FROM " + t + " WHERE id = ?",
			deleteAll: "DELETE FROM " + t,
			activeIDs: "SELECT id FROM " + t + " WHERE is_active = 1 ORDER BY " + order,
			count:     "SELECT COUNT(*) FROM " + t,
			update:    "UPDATE " + t + " SET ",
		}
		if q.named {
			q.list = "SELECT " + categoryItemColumns + " FROM " + t + " ORDER BY sort_order, id"
			q.listActive = "SELECT " + categoryItemColumns + " FROM " + t + " WHERE is_active = 1 ORDER BY sort_order, id"
			q.get = "SELECT " + categoryItemColumns + " FROM " + t + " WHERE id = ?"
			q.insert = "INSERT INTO " + t + " (name, sort_order, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
			q.random = "SELECT " + categoryItemColumns + " FROM " + t + " WHERE is_active = 1 ORDER BY RANDOM() LIMIT 1"
		}
		out[c] = q
	}
	return out
}

func (s *Store) queries(c domain.Category) (categoryQueries, error) {
	q, ok := s.categories[c]
	if !ok {
		return categoryQueries{}, fmt.Errorf("unknown category %d", int(c))
	}
	return q, nil
}

func (s *Store) namedQueries(c domain.Category) (categoryQueries, error) {
	q, err := s.queries(c)
	if err != nil {
		return q, err
	}
	if !q.named {
		return q, fmt.Errorf("category %s is not a named category", c)
	}
	return q, nil
}

// scanCategoryItem scans a sql.Row (or sql.Rows via its Scan method) into a domain.CategoryItem.
func scanCategoryItem(scanner interface{ Scan(dest ...any) error }) (*domain.CategoryItem, error) {
	var (
		item      domain.CategoryItem
		isActive  int
		createdAt string
		updatedAt string
	)
	if err := scanner.Scan(&item.ID, &item.Name, &item.SortOrder, &isActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	item.IsActive = isActive == 1

	var err error
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) queryCategoryItems(ctx context.Context, query string) ([]domain.CategoryItem, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CategoryItem{}
	for rows.Next() {
		item, err := scanCategoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListCategoryItems returns every row of a named category ordered by sort_order, id.
func (s *Store) ListCategoryItems(ctx context.Context, c domain.Category) ([]domain.CategoryItem, error) {
	q, err := s.namedQueries(c)
	if err != nil {
		return nil, err
	}
	return s.queryCategoryItems(ctx, q.list)
}

// ListActiveCategoryItems returns the active rows of a named category.
func (s *Store) ListActiveCategoryItems(ctx context.Context, c domain.Category) ([]domain.CategoryItem, error) {
	q, err := s.namedQueries(c)
	if err != nil {
		return nil, err
	}
	return s.queryCategoryItems(ctx, q.listActive)
}

// GetCategoryItem returns one row, or store.ErrNotFound.
func (s *Store) GetCategoryItem(ctx context.Context, c domain.Category, id int64) (*domain.CategoryItem, error) {
	q, err := s.namedQueries(c)
	if err != nil {
		return nil, err
	}
	item, err := scanCategoryItem(s.db.QueryRowContext(ctx, q.get, id))
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

// CreateCategoryItem inserts a row and fills in its ID and timestamps.
func (s *Store) CreateCategoryItem(ctx context.Context, c domain.Category, item *domain.CategoryItem) error {
	q, err := s.namedQueries(c)
	if err != nil {
		return err
	}

	now := s.now()
	res, err := s.db.ExecContext(ctx, q.insert,
		item.Name, item.SortOrder, boolToInt(item.IsActive), formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("insert %s: %w", c.Table(), err)
	}

	item.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	item.CreatedAt = now.UTC()
	item.UpdatedAt = now.UTC()
	return nil
}

// UpdateCategoryItem writes only the fields set in the patch.
// It does not check that the row exists.
func (s *Store) UpdateCategoryItem(ctx context.Context, c domain.Category, id int64, patch domain.CategoryPatch) error {
	q, err := s.namedQueries(c)
	if err != nil {
		return err
	}

	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.SortOrder != nil {
		set.add("sort_order", *patch.SortOrder)
	}
	if patch.IsActive != nil {
		set.add("is_active", boolToInt(*patch.IsActive))
	}
	return s.execUpdate(ctx, q, id, &set)
}

func (s *Store) execUpdate(ctx context.Context, q categoryQueries, id int64, set *setClause) error {
	set.add("updated_at", formatTime(s.now()))
	args := append(set.args, id)
	if _, err := s.db.ExecContext(ctx, q.update+set.String()+" WHERE id = ?", args...); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

// DeleteCategoryItem deletes a row from any category. Deleting a missing
// row is not an error.
func (s *Store) DeleteCategoryItem(ctx context.Context, c domain.Category, id int64) error {
	q, err := s.queries(c)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, q.delete, id); err != nil {
		return fmt.Errorf("delete from %s: %w", c.Table(), err)
	}
	return nil
}

// ClearCategory deletes every row of a category.
func (s *Store) ClearCategory(ctx context.Context, c domain.Category) error {
	q, err := s.queries(c)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, q.deleteAll); err != nil {
		return fmt.Errorf("clear %s: %w", c.Table(), err)
	}
	return nil
}

// RandomCategoryItem picks one active row uniformly, or returns store.ErrNotFound.
func (s *Store) RandomCategoryItem(ctx context.Context, c domain.Category) (*domain.CategoryItem, error) {
	q, err := s.namedQueries(c)
	if err != nil {
		return nil, err
	}
	item, err := scanCategoryItem(s.db.QueryRowContext(ctx, q.random))
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

// ActiveIDs returns the ids of every active row of any category.
func (s *Store) ActiveIDs(ctx context.Context, c domain.Category) ([]int64, error) {
	q, err := s.queries(c)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, q.activeIDs)
	if err != nil {
		return nil, fmt.Errorf("active ids %s: %w", c.Table(), err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountCategory returns the number of rows in a category.
func (s *Store) CountCategory(ctx context.Context, c domain.Category) (int, error) {
	q, err := s.queries(c)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q.count).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.Table(), err)
	}
	return n, nil
}
