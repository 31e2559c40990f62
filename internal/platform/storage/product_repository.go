package storage

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lookbook-server-go/internal/domain/catalog/aggregate"
	"lookbook-server-go/internal/domain/catalog/repository"
	"lookbook-server-go/internal/platform/errors"
)

// productRepository backs the catalog repository contract with gorm.
type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// hasImageURLCond matches products with at least one populated image field.
const hasImageURLCond = "(merchant_image_url <> '' OR aw_image_url <> '' OR large_image <> '')"

func (r *productRepository) FindCandidates(ctx context.Context, filter repository.CandidateFilter) ([]*aggregate.Product, error) {
	var models []Product

	q := r.db.WithContext(ctx).Where("is_active = ?", true)

	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	} else {
		q = q.Where("is_duplicate = ?", false)
		if !filter.Force {
			q = q.Where("image_validation_status = ?", string(aggregate.ValidationPending)).
				Where(hasImageURLCond)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
	}

	if err := q.Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "product.find_candidates", "failed to query candidates", err)
	}

	products := make([]*aggregate.Product, len(models))
	for i, model := range models {
		products[i] = r.fromModel(&model)
	}
	return products, nil
}

func (r *productRepository) UpdateImageValidation(ctx context.Context, id string, v aggregate.ImageValidation) error {
	updates := map[string]any{
		"image_content_validated": v.ContentValidated,
		"image_validation_status": string(v.Status),
		"image_validated_at":      v.ValidatedAt,
	}

	if v.Error != "" {
		msg := aggregate.Truncate(v.Error, aggregate.MaxStoredErrorLen)
		updates["image_validation_error"] = msg
	} else {
		updates["image_validation_error"] = nil
	}

	if v.Dimensions != nil {
		raw, err := json.Marshal(v.Dimensions)
		if err != nil {
			return errors.Wrap(errors.KindStorage, "product.update_validation", "failed to encode dimensions", err)
		}
		updates["image_dimensions"] = datatypes.JSON(raw)
	} else {
		updates["image_dimensions"] = nil
	}

	res := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return errors.Wrap(errors.KindStorage, "product.update_validation", "failed to update validation record", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New(errors.KindStorage, "product.update_validation", "product not found: "+id)
	}
	return nil
}

func (r *productRepository) UpdateURLReachability(ctx context.Context, id string, reachable bool, status aggregate.ValidationStatus, errMsg string, at time.Time) error {
	updates := map[string]any{
		"image_url_validated":     reachable,
		"image_validation_status": string(status),
		"image_validated_at":      at,
	}
	if errMsg != "" {
		updates["image_validation_error"] = aggregate.Truncate(errMsg, aggregate.MaxStoredErrorLen)
	} else {
		updates["image_validation_error"] = nil
	}

	res := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return errors.Wrap(errors.KindStorage, "product.update_reachability", "failed to update reachability", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New(errors.KindStorage, "product.update_reachability", "product not found: "+id)
	}
	return nil
}

func (r *productRepository) FindFailedBefore(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	failed := aggregate.FailedStatuses()
	statuses := make([]string, len(failed))
	for i, s := range failed {
		statuses[i] = string(s)
	}

	var ids []string
	q := r.db.WithContext(ctx).Model(&Product{}).
		Where("image_validation_status IN ?", statuses).
		Where("image_validated_at < ?", cutoff).
		Where("is_active = ?", true).
		Order("image_validated_at")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "product.find_failed", "failed to query failed products", err)
	}
	return ids, nil
}

// Save inserts or replaces a full product row. Used by feed ingestion and tests.
func (r *productRepository) Save(ctx context.Context, p *aggregate.Product) error {
	model, err := r.toModel(p)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "product.save", "failed to save product", err)
	}
	return nil
}

func (r *productRepository) toModel(p *aggregate.Product) (*Product, error) {
	model := &Product{
		ID:            p.ID,
		ProductName:   p.Name,
		Description:   p.Description,
		CategoryName:  p.Category,
		BrandName:     p.Brand,
		Keywords:      p.Keywords,
		MerchantImage: p.MerchantImageURL,
		AwImage:       p.SecondaryImageURL,
		LargeImage:    p.LargeImageURL,
		SearchPrice:   p.SearchPrice,
		RRPPrice:      p.RRPPrice,
		StorePrice:    p.StorePrice,
		Reviews:       p.Reviews,
		IsActive:      p.IsActive,
		IsDuplicate:   p.IsDuplicate,

		ImageURLValidated:     p.Validation.URLReachable,
		ImageContentValidated: p.Validation.ContentValidated,
		ImageValidationStatus: string(p.Validation.Status),
		ImageValidatedAt:      p.Validation.ValidatedAt,
	}

	if model.ImageValidationStatus == "" {
		model.ImageValidationStatus = string(aggregate.ValidationPending)
	}
	if p.Validation.Error != "" {
		msg := p.Validation.Error
		model.ImageValidationError = &msg
	}
	if len(p.AlternateImages) > 0 {
		raw, err := json.Marshal(p.AlternateImages)
		if err != nil {
			return nil, errors.Wrap(errors.KindStorage, "product.encode", "failed to encode alternate images", err)
		}
		model.AlternateImages = datatypes.JSON(raw)
	}
	if p.Validation.Dimensions != nil {
		raw, err := json.Marshal(p.Validation.Dimensions)
		if err != nil {
			return nil, errors.Wrap(errors.KindStorage, "product.encode", "failed to encode dimensions", err)
		}
		model.ImageDimensions = datatypes.JSON(raw)
	}

	return model, nil
}

func (r *productRepository) fromModel(model *Product) *aggregate.Product {
	p := &aggregate.Product{
		ID:                model.ID,
		Name:              model.ProductName,
		Description:       model.Description,
		Category:          model.CategoryName,
		Brand:             model.BrandName,
		Keywords:          model.Keywords,
		MerchantImageURL:  model.MerchantImage,
		SecondaryImageURL: model.AwImage,
		LargeImageURL:     model.LargeImage,
		SearchPrice:       model.SearchPrice,
		RRPPrice:          model.RRPPrice,
		StorePrice:        model.StorePrice,
		Reviews:           model.Reviews,
		IsActive:          model.IsActive,
		IsDuplicate:       model.IsDuplicate,
		Validation: aggregate.ImageValidation{
			URLReachable:     model.ImageURLValidated,
			ContentValidated: model.ImageContentValidated,
			Status:           aggregate.ValidationStatus(model.ImageValidationStatus),
			ValidatedAt:      model.ImageValidatedAt,
		},
	}

	if p.Validation.Status == "" {
		p.Validation.Status = aggregate.ValidationPending
	}
	if model.ImageValidationError != nil {
		p.Validation.Error = *model.ImageValidationError
	}
	if len(model.AlternateImages) > 0 {
		var alts []string
		if err := json.Unmarshal(model.AlternateImages, &alts); err == nil {
			p.AlternateImages = alts
		}
	}
	if len(model.ImageDimensions) > 0 {
		var dims aggregate.Dimensions
		if err := json.Unmarshal(model.ImageDimensions, &dims); err == nil {
			p.Validation.Dimensions = &dims
		}
	}

	return p
}
