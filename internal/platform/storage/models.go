package storage

import (
	"time"

	"gorm.io/datatypes"
)

// Product is the persistence model for catalog products. Column names follow
// the merchant feed layout (aw_image_url, rrp_price) so imported rows map 1:1.
type Product struct {
	ID              string         `gorm:"primaryKey;size:36"`
	ProductName     string         `gorm:"column:product_name;size:512"`
	Description     string         `gorm:"column:description"`
	CategoryName    string         `gorm:"column:category_name;size:255"`
	BrandName       string         `gorm:"column:brand_name;size:255"`
	Keywords        string         `gorm:"column:keywords"`
	MerchantImage   string         `gorm:"column:merchant_image_url;size:2048"`
	AwImage         string         `gorm:"column:aw_image_url;size:2048"`
	LargeImage      string         `gorm:"column:large_image;size:2048"`
	AlternateImages datatypes.JSON `gorm:"column:alternate_images"`
	SearchPrice     *float64       `gorm:"column:search_price"`
	RRPPrice        *float64       `gorm:"column:rrp_price"`
	StorePrice      *float64       `gorm:"column:store_price"`
	Reviews         int            `gorm:"column:reviews"`
	IsActive        bool           `gorm:"column:is_active;index"`
	IsDuplicate     bool           `gorm:"column:is_duplicate"`

	ImageURLValidated     bool           `gorm:"column:image_url_validated;index"`
	ImageContentValidated bool           `gorm:"column:image_content_validated"`
	ImageValidationStatus string         `gorm:"column:image_validation_status;size:50;index"`
	ImageValidationError  *string        `gorm:"column:image_validation_error"`
	ImageValidatedAt      *time.Time     `gorm:"column:image_validated_at"`
	ImageDimensions       datatypes.JSON `gorm:"column:image_dimensions"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Product) TableName() string {
	return "products"
}
