package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/store"
)

const presetColumns = `id, name, share_code, rounds, is_active, created_at, updated_at`

const roundColumns = `round_number,
	dice_action_id, dice_part_id,
	pose_id, place_id, time_id,
	task_id,
	story_male_role_id, story_female_role_id, story_relationship_id,
	story_initiative_id, story_behavior_id, story_action_id`

// resolvedRoundsQuery joins every reference of a preset's rounds to its row.
// Dangling references come back as NULL.
const resolvedRoundsQuery = `
	SELECT
		r.round_number,
		da.name, dp.name,
		po.name, po.image_path, po.description,
		pl.name, t.name,
		tk.description,
		smr.name, sfr.name, srl.name, sin.name, sbh.name, sac.name
	FROM preset_rounds r
	LEFT JOIN dice_actions da ON r.dice_action_id = da.id
	LEFT JOIN dice_parts dp ON r.dice_part_id = dp.id
	LEFT JOIN zishi_poses po ON r.pose_id = po.id
	LEFT JOIN zishi_places pl ON r.place_id = pl.id
	LEFT JOIN zishi_times t ON r.time_id = t.id
	LEFT JOIN tasks tk ON r.task_id = tk.id
	LEFT JOIN story_male_roles smr ON r.story_male_role_id = smr.id
	LEFT JOIN story_female_roles sfr ON r.story_female_role_id = sfr.id
	LEFT JOIN story_relationships srl ON r.story_relationship_id = srl.id
	LEFT JOIN story_initiatives sin ON r.story_initiative_id = sin.id
	LEFT JOIN story_behaviors sbh ON r.story_behavior_id = sbh.id
	LEFT JOIN story_actions sac ON r.story_action_id = sac.id
	WHERE r.preset_id = ?
	ORDER BY r.round_number ASC, r.id ASC`

func scanPreset(scanner interface{ Scan(dest ...any) error }) (*domain.Preset, error) {
	var (
		p         domain.Preset
		isActive  int
		createdAt string
		updatedAt string
	)
	err := scanner.Scan(&p.ID, &p.Name, &p.ShareCode, &p.Rounds, &isActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.IsActive = isActive == 1

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePreset inserts a preset and its rounds in one transaction.
// Returns store.ErrAlreadyExists if the share code is taken.
func (s *Store) CreatePreset(ctx context.Context, p *domain.Preset, rounds []domain.RoundSpec) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO presets (name, share_code, rounds, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.ShareCode, p.Rounds, boolToInt(p.IsActive), formatTime(now), formatTime(now))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("insert preset: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if err := insertRounds(ctx, tx, id, rounds); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	p.ID = id
	p.CreatedAt = now.UTC()
	p.UpdatedAt = now.UTC()
	return nil
}

// GetPreset returns a preset by id regardless of is_active, without rounds.
func (s *Store) GetPreset(ctx context.Context, id int64) (*domain.Preset, error) {
	p, err := scanPreset(s.db.QueryRowContext(ctx,
		`SELECT `+presetColumns+` FROM presets WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// GetPresetByShareCode returns the active preset with the given code, without rounds.
func (s *Store) GetPresetByShareCode(ctx context.Context, code string) (*domain.Preset, error) {
	p, err := scanPreset(s.db.QueryRowContext(ctx,
		`SELECT `+presetColumns+` FROM presets WHERE share_code = ? AND is_active = 1`, code))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// ShareCodeExists reports whether any preset, active or not, uses the code.
func (s *Store) ShareCodeExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM presets WHERE share_code = ?`, code).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check share code: %w", err)
	}
	return true, nil
}

// ListPresets returns every preset, newest first.
func (s *Store) ListPresets(ctx context.Context) ([]domain.Preset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+presetColumns+` FROM presets ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	presets := []domain.Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

// UpdatePreset applies a partial update and, when requested, replaces the
// rounds, all in one transaction.
func (s *Store) UpdatePreset(ctx context.Context, id int64, patch domain.PresetPatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Rounds != nil {
		set.add("rounds", *patch.Rounds)
	}
	if patch.IsActive != nil {
		set.add("is_active", boolToInt(*patch.IsActive))
	}
	set.add("updated_at", formatTime(s.now()))

	args := append(set.args, id)
	res, err := tx.ExecContext(ctx, `UPDATE presets SET `+set.String()+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update preset: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}

	if patch.ReplaceRounds {
		if err := replaceRounds(ctx, tx, id, patch.RoundsData); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveRounds replaces every round of a preset in one transaction.
func (s *Store) SaveRounds(ctx context.Context, presetID int64, rounds []domain.RoundSpec) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := replaceRounds(ctx, tx, presetID, rounds); err != nil {
		return err
	}
	return tx.Commit()
}

// DeletePreset removes the rounds and then the preset in one transaction.
// Returns store.ErrNotFound if the preset does not exist.
func (s *Store) DeletePreset(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM preset_rounds WHERE preset_id = ?`, id); err != nil {
		return fmt.Errorf("delete preset_rounds: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	return tx.Commit()
}

// ListRounds returns the stored rounds of a preset with their raw references.
func (s *Store) ListRounds(ctx context.Context, presetID int64) ([]domain.RoundSpec, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+roundColumns+` FROM preset_rounds WHERE preset_id = ? ORDER BY round_number ASC, id ASC`, presetID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	rounds := []domain.RoundSpec{}
	for rows.Next() {
		var (
			r    domain.RoundSpec
			refs [12]sql.NullInt64
		)
		dest := []any{&r.RoundNumber}
		for i := range refs {
			dest = append(dest, &refs[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		for i, c := range domain.AllCategories() {
			if refs[i].Valid {
				v := refs[i].Int64
				*r.Ref(c) = &v
			}
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// ResolvedRounds returns a preset's rounds joined to the rows they reference,
// ordered by round number.
func (s *Store) ResolvedRounds(ctx context.Context, presetID int64) ([]domain.ResolvedRound, error) {
	rows, err := s.db.QueryContext(ctx, resolvedRoundsQuery, presetID)
	if err != nil {
		return nil, fmt.Errorf("resolve rounds: %w", err)
	}
	defer rows.Close()

	rounds := []domain.ResolvedRound{}
	for rows.Next() {
		var (
			r    domain.ResolvedRound
			cols [14]sql.NullString
		)
		dest := []any{&r.RoundNumber}
		for i := range cols {
			dest = append(dest, &cols[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan resolved round: %w", err)
		}

		targets := []**string{
			&r.DiceActionName, &r.DicePartName,
			&r.PoseName, &r.PoseImage, &r.PoseDescription,
			&r.PlaceName, &r.TimeName,
			&r.TaskDescription,
			&r.StoryMaleRoleName, &r.StoryFemaleRoleName, &r.StoryRelationshipName,
			&r.StoryInitiativeName, &r.StoryBehaviorName, &r.StoryActionName,
		}
		for i, t := range targets {
			*t = stringPtr(cols[i])
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

func replaceRounds(ctx context.Context, tx *sql.Tx, presetID int64, rounds []domain.RoundSpec) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM preset_rounds WHERE preset_id = ?`, presetID); err != nil {
		return fmt.Errorf("delete preset_rounds: %w", err)
	}
	return insertRounds(ctx, tx, presetID, rounds)
}

func insertRounds(ctx context.Context, tx *sql.Tx, presetID int64, rounds []domain.RoundSpec) error {
	if len(rounds) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO preset_rounds (preset_id, `+roundColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare round insert: %w", err)
	}
	defer stmt.Close()

	for i := range rounds {
		r := &rounds[i]
		args := []any{presetID, r.RoundNumber}
		for _, c := range domain.AllCategories() {
			args = append(args, nullableInt64(*r.Ref(c)))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert round %d: %w", r.RoundNumber, err)
		}
	}
	return nil
}
