package migrations

import (
	"gorm.io/gorm"
)

// Migration002ImageValidation adds the image validation tracking fields.
type Migration002ImageValidation struct{}

func (m *Migration002ImageValidation) Version() string {
	return "002_image_validation"
}

func (m *Migration002ImageValidation) Description() string {
	return "Add image validation tracking fields to products"
}

func (m *Migration002ImageValidation) Up(db *gorm.DB) error {
	stmts := []string{
		`ALTER TABLE products ADD COLUMN image_url_validated BOOLEAN NOT NULL DEFAULT false`,
		`ALTER TABLE products ADD COLUMN image_content_validated BOOLEAN NOT NULL DEFAULT false`,
		`ALTER TABLE products ADD COLUMN image_validation_status VARCHAR(50) DEFAULT 'pending'`,
		`ALTER TABLE products ADD COLUMN image_validation_error TEXT`,
		`ALTER TABLE products ADD COLUMN image_validated_at DATETIME`,
		`ALTER TABLE products ADD COLUMN image_dimensions JSON`,
		`CREATE INDEX IF NOT EXISTS idx_products_image_url_validated ON products(image_url_validated)`,
		`CREATE INDEX IF NOT EXISTS idx_products_image_validation_status ON products(image_validation_status)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration002ImageValidation) Down(db *gorm.DB) error {
	stmts := []string{
		`DROP INDEX IF EXISTS idx_products_image_validation_status`,
		`DROP INDEX IF EXISTS idx_products_image_url_validated`,
		`ALTER TABLE products DROP COLUMN image_dimensions`,
		`ALTER TABLE products DROP COLUMN image_validated_at`,
		`ALTER TABLE products DROP COLUMN image_validation_error`,
		`ALTER TABLE products DROP COLUMN image_validation_status`,
		`ALTER TABLE products DROP COLUMN image_content_validated`,
		`ALTER TABLE products DROP COLUMN image_url_validated`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
