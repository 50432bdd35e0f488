// Package admin contains the administrative use cases: asset-type and
// account provisioning plus reporting listings. These sit outside the
// transfer engine's hot path.
package admin

import (
	"context"
	"fmt"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

// CreateAssetTypeUseCase provisions a new currency definition.
type CreateAssetTypeUseCase struct {
	assetTypes ports.AssetTypeRepository
}

// NewCreateAssetTypeUseCase creates the use case.
func NewCreateAssetTypeUseCase(assetTypes ports.AssetTypeRepository) *CreateAssetTypeUseCase {
	return &CreateAssetTypeUseCase{assetTypes: assetTypes}
}

// Execute creates the asset type. Duplicate codes fail with ErrAlreadyExists.
func (uc *CreateAssetTypeUseCase) Execute(ctx context.Context, cmd dtos.CreateAssetTypeCommand) (*dtos.AssetTypeDTO, error) {
	at, err := entities.NewAssetType(cmd.Code, cmd.Name, cmd.Description, cmd.DecimalPlaces)
	if err != nil {
		return nil, err
	}

	if err := uc.assetTypes.Create(ctx, at); err != nil {
		if errors.IsConflict(err) {
			return nil, fmt.Errorf("%w: asset type %s", errors.ErrAlreadyExists, at.Code())
		}
		return nil, errors.NewStoreError("assetType.create", err)
	}

	dto := dtos.MapAssetTypeToDTO(at)
	return &dto, nil
}
