package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock no se edita aquí:
// solo los documentos completados lo mueven.
type ProductUseCase struct {
	repo    repository.ProductRepository
	binRepo repository.BinRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, binRepo repository.BinRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, binRepo: binRepo}
}

// Create crea un nuevo producto. ConversionFactor en cero se interpreta como 1.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.ConversionFactor.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.DefaultBinID != "" {
		bin, err := uc.binRepo.GetByID(in.DefaultBinID)
		if err != nil {
			return nil, err
		}
		if bin == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.StockUnit == "" {
		in.StockUnit = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		SKU:              in.SKU,
		Name:             in.Name,
		Description:      in.Description,
		Barcode:          in.Barcode,
		StockUnit:        in.StockUnit,
		PurchaseUnit:     in.PurchaseUnit,
		ConversionFactor: in.ConversionFactor,
		DefaultBinID:     in.DefaultBinID,
		ReorderLevel:     in.ReorderLevel,
		ReorderQuantity:  in.ReorderQuantity,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return dto.ToProductResponse(product), nil
}

// Update actualiza un producto; solo los campos presentes.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.StockUnit != nil {
		product.StockUnit = *in.StockUnit
	}
	if in.PurchaseUnit != nil {
		product.PurchaseUnit = *in.PurchaseUnit
	}
	if in.ConversionFactor != nil {
		if in.ConversionFactor.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.ConversionFactor = *in.ConversionFactor
	}
	if in.DefaultBinID != nil {
		product.DefaultBinID = *in.DefaultBinID
	}
	if in.ReorderLevel != nil {
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.ReorderQuantity != nil {
		product.ReorderQuantity = *in.ReorderQuantity
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// List lista productos paginados.
func (uc *ProductUseCase) List(limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}
