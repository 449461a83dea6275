package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createProfilesTable creates the profiles table with its indexes.
func createProfilesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_profiles",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS profiles (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id VARCHAR(100) NOT NULL,
					username VARCHAR(50) NOT NULL,

					-- Account snapshot
					followers_count INTEGER DEFAULT 0,
					following_count INTEGER DEFAULT 0,
					tweet_count INTEGER DEFAULT 0,
					verified BOOLEAN DEFAULT FALSE,
					account_age_days INTEGER DEFAULT 0,
					bio_length INTEGER DEFAULT 0,
					avg_engagement_rate DECIMAL(10,5) DEFAULT 0,

					-- History aggregates
					history_posts INTEGER DEFAULT 0,
					history_likes INTEGER DEFAULT 0,
					history_retweets INTEGER DEFAULT 0,
					history_replies INTEGER DEFAULT 0,
					history_impressions INTEGER DEFAULT 0,
					style JSONB,

					-- Timestamps
					synced_at TIMESTAMP,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					-- Unique constraint for upsert
					CONSTRAINT idx_profiles_user_username UNIQUE (user_id, username)
				);
			`).Error
			if err != nil {
				return err
			}

			return tx.Exec("CREATE INDEX IF NOT EXISTS idx_profiles_synced_at ON profiles(synced_at ASC NULLS FIRST);").Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS profiles;").Error
		},
	}
}
