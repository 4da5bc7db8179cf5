package routes

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/folio-service/folio_service/internal/domain/entities"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("assettype", func(fl validator.FieldLevel) bool {
			return entities.AssetType(fl.Field().String()).IsValid()
		})
		v.RegisterValidation("direction", func(fl validator.FieldLevel) bool {
			return entities.NotificationDirection(fl.Field().String()).IsValid()
		})
	}
}
