package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mhutton/lodestar/internal/model"
)

type QuestStore struct {
	db *sql.DB
}

func NewQuestStore(db *sql.DB) *QuestStore {
	return &QuestStore{db: db}
}

const questCols = `id, title, description, tags, cooldown_minutes, difficulty, category, sort_order, is_custom, created_at`

func scanQuest(scanner interface{ Scan(...any) error }) (*model.Quest, error) {
	var q model.Quest
	var tags string
	var custom int
	err := scanner.Scan(
		&q.ID, &q.Title, &q.Description, &tags, &q.CooldownMinutes,
		&q.Difficulty, &q.Category, &q.SortOrder, &custom, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, tag := range strings.Split(tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			q.Tags = append(q.Tags, tag)
		}
	}
	q.Custom = custom != 0
	return &q, nil
}

// Catalog returns the built-in quests in display order. Custom quests are
// excluded; they are one-off and never enter the selection pool.
func (s *QuestStore) Catalog() ([]model.Quest, error) {
	rows, err := s.db.Query(`SELECT ` + questCols + ` FROM quests WHERE is_custom = 0 ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list quest catalog: %w", err)
	}
	defer rows.Close()
	return scanQuests(rows)
}

func (s *QuestStore) ListCustom() ([]model.Quest, error) {
	rows, err := s.db.Query(`SELECT ` + questCols + ` FROM quests WHERE is_custom = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list custom quests: %w", err)
	}
	defer rows.Close()
	return scanQuests(rows)
}

func (s *QuestStore) GetByID(id string) (*model.Quest, error) {
	row := s.db.QueryRow(`SELECT `+questCols+` FROM quests WHERE id = ?`, id)
	q, err := scanQuest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quest: %w", err)
	}
	return q, nil
}

// CreateCustom persists a caregiver-authored quest.
func (s *QuestStore) CreateCustom(q model.Quest) (*model.Quest, error) {
	var custom int
	if q.Custom {
		custom = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO quests (id, title, description, tags, cooldown_minutes, difficulty, category, sort_order, is_custom, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Title, q.Description, strings.Join(q.Tags, ","), q.CooldownMinutes,
		q.Difficulty, q.Category, q.SortOrder, custom, q.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert custom quest: %w", err)
	}
	return s.GetByID(q.ID)
}

func (s *QuestStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM quests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete quest: %w", err)
	}
	return nil
}

func scanQuests(rows *sql.Rows) ([]model.Quest, error) {
	var quests []model.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quest: %w", err)
		}
		quests = append(quests, *q)
	}
	return quests, rows.Err()
}
