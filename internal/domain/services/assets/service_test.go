package assets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

func strPtr(s string) *string { return &s }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func validCrypto() *CreateInput {
	return &CreateInput{
		Type:     entities.AssetTypeCrypto,
		Symbol:   strPtr("BTC"),
		Quantity: decimal.NewFromInt(2),
		BuyPrice: decimal.NewFromInt(10000),
	}
}

func TestCreateInputValidate(t *testing.T) {
	assert.NoError(t, validCrypto().validate())

	gold := &CreateInput{
		Type:     entities.AssetTypeGold,
		Quantity: decimal.NewFromInt(5),
		BuyPrice: decimal.NewFromInt(60),
	}
	assert.NoError(t, gold.validate())
}

func TestCreateInputValidateRejectsUnknownType(t *testing.T) {
	in := validCrypto()
	in.Type = entities.AssetType("BONDS")
	err := in.validate()
	require.Error(t, err)

	var appErr *apperrors.FolioError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestCreateInputValidateRequiresSymbol(t *testing.T) {
	in := validCrypto()
	in.Symbol = nil
	require.Error(t, in.validate())

	in = validCrypto()
	in.Symbol = strPtr("")
	require.Error(t, in.validate())

	stock := &CreateInput{
		Type:     entities.AssetTypeStock,
		Quantity: decimal.NewFromInt(1),
		BuyPrice: decimal.NewFromInt(100),
	}
	require.Error(t, stock.validate())
}

func TestCreateInputValidateRejectsNonPositiveAmounts(t *testing.T) {
	in := validCrypto()
	in.Quantity = decimal.Zero
	assert.Error(t, in.validate())

	in = validCrypto()
	in.BuyPrice = decimal.NewFromInt(-5)
	assert.Error(t, in.validate())
}

func TestCreateInputValidateRealEstateFields(t *testing.T) {
	pt := entities.PropertyApartment
	in := &CreateInput{
		Type:             entities.AssetTypeRealEstate,
		Quantity:         decimal.NewFromInt(1),
		BuyPrice:         decimal.NewFromInt(250000),
		Location:         strPtr("Lisbon"),
		Area:             decPtr(84),
		PropertyType:     &pt,
		CurrentValuation: decPtr(310000),
	}
	assert.NoError(t, in.validate())

	bad := entities.PropertyType("castle")
	in.PropertyType = &bad
	assert.Error(t, in.validate())
}

func TestCreateInputValidateRealEstateFieldsOnWrongType(t *testing.T) {
	in := validCrypto()
	in.Location = strPtr("Lisbon")
	assert.Error(t, in.validate())

	in = validCrypto()
	in.CurrentValuation = decPtr(100)
	assert.Error(t, in.validate())
}

func TestCreateInputValidateBounds(t *testing.T) {
	in := validCrypto()
	in.Symbol = strPtr("ABCDEFGHIJKLMNOPQRSTU")
	assert.Error(t, in.validate())

	in = validCrypto()
	in.Quantity = decimal.New(1, 16)
	assert.Error(t, in.validate())

	pt := entities.PropertyApartment
	re := &CreateInput{
		Type:         entities.AssetTypeRealEstate,
		Quantity:     decimal.NewFromInt(1),
		BuyPrice:     decimal.NewFromInt(250000),
		PropertyType: &pt,
		Area:         decPtr(-10),
	}
	assert.Error(t, re.validate())

	re.Area = decPtr(84)
	re.RentalIncome = decPtr(-1)
	assert.Error(t, re.validate())

	re.RentalIncome = decPtr(0)
	assert.NoError(t, re.validate())
}

func TestCreateRuleValidation(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateRule(ctx, uuid.Nil, uuid.Nil, entities.NotificationDirection("SIDEWAYS"), 10)
	assert.Error(t, err)

	_, err = svc.CreateRule(ctx, uuid.Nil, uuid.Nil, entities.DirectionUp, 0)
	assert.Error(t, err)

	_, err = svc.CreateRule(ctx, uuid.Nil, uuid.Nil, entities.DirectionUp, 101)
	assert.Error(t, err)
}
