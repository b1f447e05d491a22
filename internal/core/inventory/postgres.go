package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"recipe-costing/internal/pkg/common"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore PostgreSQL 食材儲存
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore 連線並建立必要資料表
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS ingredients (
		id TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		unit TEXT NOT NULL,
		cost_per_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
		global_ingredient_id TEXT
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create ingredients table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// List 列出餐廳的全部食材
func (s *PostgresStore) List(ctx context.Context, restaurantID string) ([]common.Ingredient, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, name, unit, cost_per_unit, COALESCE(global_ingredient_id, '') FROM ingredients WHERE restaurant_id = $1 ORDER BY name",
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []common.Ingredient
	for rows.Next() {
		var ing common.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.CostPerUnit, &ing.GlobalIngredientID); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient row: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return ingredients, nil
}

// Create 建立新食材
func (s *PostgresStore) Create(ctx context.Context, restaurantID string, fields common.Ingredient) (common.Ingredient, error) {
	ing := fields
	ing.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO ingredients (id, restaurant_id, name, unit, cost_per_unit, global_ingredient_id) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))",
		ing.ID, restaurantID, ing.Name, ing.Unit, ing.CostPerUnit, ing.GlobalIngredientID,
	)
	if err != nil {
		return common.Ingredient{}, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return ing, nil
}

// Update 部分更新食材並回傳更新後內容
func (s *PostgresStore) Update(ctx context.Context, id string, patch IngredientPatch) (common.Ingredient, error) {
	var ing common.Ingredient
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, name, unit, cost_per_unit, COALESCE(global_ingredient_id, '') FROM ingredients WHERE id = $1",
		id,
	).Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.CostPerUnit, &ing.GlobalIngredientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return common.Ingredient{}, fmt.Errorf("ingredient not found: %s", id)
		}
		return common.Ingredient{}, fmt.Errorf("failed to load ingredient: %w", err)
	}

	applyPatch(&ing, patch)

	_, err = s.db.ExecContext(ctx,
		"UPDATE ingredients SET name = $2, unit = $3, cost_per_unit = $4, global_ingredient_id = NULLIF($5, '') WHERE id = $1",
		ing.ID, ing.Name, ing.Unit, ing.CostPerUnit, ing.GlobalIngredientID,
	)
	if err != nil {
		return common.Ingredient{}, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return ing, nil
}
