package httpadapter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

// assessRequest is the body of POST /api/calculate-risk. Pointers let the
// validator tell a missing factor from an explicit zero.
type assessRequest struct {
	Speed        *float64 `json:"speed" validate:"required"`
	Acceleration *float64 `json:"acceleration" validate:"required"`
	Temperature  *float64 `json:"temperature" validate:"required"`
	Humidity     *float64 `json:"humidity" validate:"required"`
	WindSpeed    *float64 `json:"wind_speed" validate:"required"`
	Visibility   *float64 `json:"visibility" validate:"required"`
}

func (r assessRequest) reading() domain.Reading {
	values := make(map[domain.Factor]float64, 6)
	set := func(f domain.Factor, v *float64) {
		if v != nil {
			values[f] = *v
		}
	}
	set(domain.Speed, r.Speed)
	set(domain.Acceleration, r.Acceleration)
	set(domain.Temperature, r.Temperature)
	set(domain.Humidity, r.Humidity)
	set(domain.WindSpeed, r.WindSpeed)
	set(domain.Visibility, r.Visibility)
	return domain.NewReading(values)
}

type batchRequest struct {
	Readings []assessRequest `json:"readings" validate:"required,min=1,dive"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage flattens validator errors into one client-facing line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
