package handler

import (
	"errors"
	"net/http"
	"reflect"

	"cargohub/internal/apierror"
	"cargohub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service-layer errors onto HTTP status codes:
//
//	NotFoundError   → 404
//	ConflictError   → 409
//	ValidationError → 422
//	PartialFailure  → 409, with per-step detail
//	anything else   → 500, detail hidden
func respondError(c *gin.Context, err error) {
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, apierror.New(nf.Error()))
		return
	}
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, apierror.New(conflict.Error()))
		return
	}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{ve.Field: ve.Detail}))
		return
	}
	var pf *service.PartialFailure
	if errors.As(err, &pf) {
		steps := make([]string, 0, len(pf.Failed))
		for i := range pf.Failed {
			steps = append(steps, pf.Failed[i].Error())
		}
		c.JSON(http.StatusConflict, gin.H{
			"detail":    pf.Error(),
			"completed": pf.Completed,
			"failed":    steps,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
}

// parseID extracts and parses the :id path param, writing the 400 response on
// failure.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return uuid.Nil, false
	}
	return id, true
}
