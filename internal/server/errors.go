package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/minsu/gig-recommender/internal/geocode"
	"github.com/minsu/gig-recommender/internal/store"
	"github.com/minsu/gig-recommender/internal/types"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var invalidStatus *types.InvalidStatusError
	var validationErrs validator.ValidationErrors
	var geoErr *geocode.Error

	switch {
	case errors.Is(err, store.ErrProfileNotFound), errors.Is(err, store.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrCapacityFull):
		return http.StatusConflict
	case errors.As(err, &invalidStatus), errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.As(err, &geoErr):
		if geoErr.NotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
