package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createCampaignTables stores A/B campaigns and their variants. Variants
// are removed with their campaign.
func createCampaignTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "003_create_campaigns",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS ab_campaigns (
					id UUID PRIMARY KEY,
					user_id VARCHAR(100) NOT NULL,
					name VARCHAR(255) NOT NULL,
					status VARCHAR(20) NOT NULL DEFAULT 'running',
					started_at TIMESTAMP NOT NULL,
					ended_at TIMESTAMP,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS ab_variants (
					id UUID PRIMARY KEY,
					campaign_id UUID NOT NULL REFERENCES ab_campaigns(id) ON DELETE CASCADE,
					position INTEGER NOT NULL,
					text TEXT NOT NULL,
					score DECIMAL(5,1) NOT NULL,
					analysis JSONB,

					-- Observed metrics
					impressions INTEGER DEFAULT 0,
					likes INTEGER DEFAULT 0,
					retweets INTEGER DEFAULT 0,
					replies INTEGER DEFAULT 0,
					is_winner BOOLEAN DEFAULT FALSE,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_ab_campaigns_user_created ON ab_campaigns(user_id, created_at DESC);",
				"CREATE INDEX IF NOT EXISTS idx_ab_variants_campaign ON ab_variants(campaign_id, position);",
			}
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP TABLE IF EXISTS ab_variants;").Error; err != nil {
				return err
			}
			return tx.Exec("DROP TABLE IF EXISTS ab_campaigns;").Error
		},
	}
}
