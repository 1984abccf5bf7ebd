package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// --- Request types for the listing endpoints ---
//
// Listings are submitted as multipart forms because they carry an optional
// image. Fields are pulled out of the form by hand and validated with the
// same tags the JSON endpoints use.

type roomForm struct {
	Description string  `validate:"required"`
	Floor       int     `validate:"gte=0"`
	Address     string  `validate:"required"`
	RentPrice   float64 `validate:"required,gt=0"`
	Parking     string  `validate:"required,oneof=available 'not available'"`
	ContactNo   string  `validate:"required"`
	Bathrooms   int     `validate:"gte=0"`
}

func bindRoomForm(c echo.Context) (*roomForm, error) {
	floor, err := formInt(c, "floor")
	if err != nil {
		return nil, err
	}
	bathrooms, err := formInt(c, "bathroom")
	if err != nil {
		return nil, err
	}
	rent, err := formFloat(c, "rentPrice")
	if err != nil {
		return nil, err
	}
	return &roomForm{
		Description: c.FormValue("roomDescription"),
		Floor:       floor,
		Address:     c.FormValue("address"),
		RentPrice:   rent,
		Parking:     c.FormValue("parking"),
		ContactNo:   c.FormValue("contactNo"),
		Bathrooms:   bathrooms,
	}, nil
}

type roommateForm struct {
	Name              string  `validate:"required"`
	Age               int     `validate:"required,gte=18"`
	Gender            string  `validate:"required,oneof=male female other"`
	Occupation        string  `validate:"omitempty"`
	Bio               string  `validate:"omitempty"`
	Budget            float64 `validate:"required,gt=0"`
	PreferredLocation string  `validate:"required"`
	ContactNo         string  `validate:"required"`
}

func bindRoommateForm(c echo.Context) (*roommateForm, error) {
	age, err := formInt(c, "age")
	if err != nil {
		return nil, err
	}
	budget, err := formFloat(c, "budget")
	if err != nil {
		return nil, err
	}
	return &roommateForm{
		Name:              c.FormValue("name"),
		Age:               age,
		Gender:            c.FormValue("gender"),
		Occupation:        c.FormValue("occupation"),
		Bio:               c.FormValue("bio"),
		Budget:            budget,
		PreferredLocation: c.FormValue("preferredLocation"),
		ContactNo:         c.FormValue("contactNo"),
	}, nil
}

func formInt(c echo.Context, field string) (int, error) {
	raw := c.FormValue(field)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, field+" must be a number")
	}
	return v, nil
}

func formFloat(c echo.Context, field string) (float64, error) {
	raw := c.FormValue(field)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, field+" must be a number")
	}
	return v, nil
}
