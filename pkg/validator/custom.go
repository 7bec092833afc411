package validator

import "github.com/go-playground/validator/v10"

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("lat", validateLat)
	validate.RegisterValidation("lng", validateLng)
	validate.RegisterValidation("radius_km", validateRadiusKM)
	validate.RegisterValidation("need", validateNeed)
	validate.RegisterValidation("media_kind", validateMediaKind)
}

func validateLat(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLng(fl validator.FieldLevel) bool {
	lng := fl.Field().Float()
	return lng >= -180.0 && lng <= 180.0
}

func validateRadiusKM(fl validator.FieldLevel) bool {
	radius := fl.Field().Float()
	return radius >= 0.1 && radius <= 100.0
}

var needs = map[string]struct{}{
	"medical":       {},
	"food":          {},
	"shelter":       {},
	"rescue":        {},
	"vaccination":   {},
	"sterilization": {},
	"other":         {},
}

func validateNeed(fl validator.FieldLevel) bool {
	_, ok := needs[fl.Field().String()]
	return ok
}

var mediaKinds = map[string]struct{}{
	"photo":            {},
	"video":            {},
	"resolution_photo": {},
	"resolution_video": {},
	"resolution_pdf":   {},
}

func validateMediaKind(fl validator.FieldLevel) bool {
	_, ok := mediaKinds[fl.Field().String()]
	return ok
}
