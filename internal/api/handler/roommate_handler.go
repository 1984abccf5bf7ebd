package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharfindr/rental-api/internal/api/metrics"
	"github.com/gharfindr/rental-api/internal/core/ports"
	"github.com/gharfindr/rental-api/internal/infrastructure/storage"
)

// RoommateHandler serves the roommate-listing CRUD endpoints.
type RoommateHandler struct {
	roommates ports.RoommateService
	images    *storage.DiskStore
}

func NewRoommateHandler(roommates ports.RoommateService, images *storage.DiskStore) *RoommateHandler {
	return &RoommateHandler{roommates: roommates, images: images}
}

// Create stores a new roommate listing owned by the caller.
//
// @Summary      Create a roommate listing
// @Tags         roommates
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.RoommateListing
// @Failure      400  {object}  map[string]string
// @Router       /roommates [post]
func (h *RoommateHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	form, err := bindRoommateForm(c)
	if err != nil {
		return err
	}
	if err := c.Validate(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	imagePath, err := h.saveImage(c)
	if err != nil {
		return err
	}

	roommate, err := h.roommates.Create(c.Request().Context(), actor, ports.CreateRoommateInput{
		Name:              form.Name,
		Age:               form.Age,
		Gender:            form.Gender,
		Occupation:        form.Occupation,
		Bio:               form.Bio,
		Budget:            form.Budget,
		PreferredLocation: form.PreferredLocation,
		ContactNo:         form.ContactNo,
		ImagePath:         imagePath,
	})
	if err != nil {
		return err
	}

	metrics.ListingsCreatedTotal.WithLabelValues("roommate").Inc()
	return c.JSON(http.StatusCreated, roommate)
}

// Get returns one roommate listing by id.
//
// @Summary      Get a roommate listing
// @Tags         roommates
// @Produce      json
// @Param        id  path  string  true  "Roommate id"
// @Success      200  {object}  domain.RoommateListing
// @Failure      404  {object}  map[string]string
// @Router       /roommates/{id} [get]
func (h *RoommateHandler) Get(c echo.Context) error {
	roommate, err := h.roommates.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roommate)
}

// List returns the caller's roommate listings, or every listing with ?show=all.
//
// @Summary      List roommate listings
// @Tags         roommates
// @Produce      json
// @Security     BearerAuth
// @Param        show  query  string  false  "Pass 'all' to list every roommate"
// @Success      200  {array}  domain.RoommateListing
// @Router       /roommates [get]
func (h *RoommateHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	roommates, err := h.roommates.List(c.Request().Context(), ports.ListRoommatesInput{
		Actor:   actor,
		ShowAll: c.QueryParam("show") == "all",
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roommates)
}

// Update replaces the mutable fields of a roommate listing.
//
// @Summary      Update a roommate listing
// @Tags         roommates
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Roommate id"
// @Success      200  {object}  domain.RoommateListing
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /roommates/{id} [put]
func (h *RoommateHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	form, err := bindRoommateForm(c)
	if err != nil {
		return err
	}
	if err := c.Validate(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	imagePath, err := h.saveImage(c)
	if err != nil {
		return err
	}

	roommate, err := h.roommates.Update(c.Request().Context(), actor, c.Param("id"), ports.CreateRoommateInput{
		Name:              form.Name,
		Age:               form.Age,
		Gender:            form.Gender,
		Occupation:        form.Occupation,
		Bio:               form.Bio,
		Budget:            form.Budget,
		PreferredLocation: form.PreferredLocation,
		ContactNo:         form.ContactNo,
		ImagePath:         imagePath,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roommate)
}

// Delete removes a roommate listing.
//
// @Summary      Delete a roommate listing
// @Tags         roommates
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Roommate id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /roommates/{id} [delete]
func (h *RoommateHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.roommates.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "roommate deleted"})
}

func (h *RoommateHandler) saveImage(c echo.Context) (string, error) {
	file, err := c.FormFile("roommateImage")
	if err != nil {
		return "", nil
	}
	path, err := h.images.Save(file)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "could not store image")
	}
	return path, nil
}
