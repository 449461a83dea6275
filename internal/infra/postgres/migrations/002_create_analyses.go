package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createAnalysesTable stores scored posts. Explanations are text arrays and
// the feature vector and engagement prediction are JSONB documents.
func createAnalysesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_create_analyses",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS analyses (
					id UUID PRIMARY KEY,
					user_id VARCHAR(100) NOT NULL,
					text TEXT NOT NULL,

					-- Scores
					score DECIMAL(5,1) NOT NULL,
					content_score DECIMAL(5,1),
					phoenix_score DECIMAL(5,1),
					profile_boost DECIMAL(5,2),
					gated BOOLEAN DEFAULT FALSE,

					-- Explanations
					applied_rules TEXT[],
					strengths TEXT[],
					weaknesses TEXT[],
					suggestions TEXT[],
					features JSONB,
					engagement_prediction JSONB,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_analyses_user_created ON analyses(user_id, created_at DESC);",
				"CREATE INDEX IF NOT EXISTS idx_analyses_score ON analyses(score DESC);",
			}
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS analyses;").Error
		},
	}
}
