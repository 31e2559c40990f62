package migrations

import (
	"gorm.io/gorm"
)

// Migration001Products creates the products table.
type Migration001Products struct{}

func (m *Migration001Products) Version() string {
	return "001_products"
}

func (m *Migration001Products) Description() string {
	return "Create products table"
}

func (m *Migration001Products) Up(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(36) PRIMARY KEY,
			product_name VARCHAR(512),
			description TEXT,
			category_name VARCHAR(255),
			brand_name VARCHAR(255),
			keywords TEXT,
			merchant_image_url VARCHAR(2048) DEFAULT '',
			aw_image_url VARCHAR(2048) DEFAULT '',
			large_image VARCHAR(2048) DEFAULT '',
			alternate_images JSON,
			search_price DECIMAL(12,2),
			rrp_price DECIMAL(12,2),
			store_price DECIMAL(12,2),
			reviews INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			is_duplicate BOOLEAN NOT NULL DEFAULT false,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error; err != nil {
		return err
	}

	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_products_is_active ON products(is_active)`).Error
}

func (m *Migration001Products) Down(db *gorm.DB) error {
	return db.Exec(`DROP TABLE IF EXISTS products`).Error
}
