package handler

import (
	"errors"
	"net/http"
	"reflect"

	"wareinc/internal/apierror"
	"wareinc/internal/service"

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
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewKind(string(service.KindInvalidInput), err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads the :id path parameter. A malformed id is invalid input.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewKind(string(service.KindInvalidInput), "ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps a ledger error kind to its HTTP status.
func statusFor(k service.Kind) int {
	switch k {
	case service.KindInvalidInput:
		return http.StatusUnprocessableEntity
	case service.KindDuplicateName, service.KindCategoryInUse,
		service.KindInsufficientBudget, service.KindInsufficientStock:
		return http.StatusConflict
	case service.KindProductNotFound, service.KindCategoryNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes ledger errors with their user-facing message. Anything
// else is handed to middleware.ErrorHandler, which logs it and answers 500.
func respondError(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		c.JSON(statusFor(se.Kind), apierror.NewKind(string(se.Kind), se.Msg))
		return
	}
	_ = c.Error(err)
}
