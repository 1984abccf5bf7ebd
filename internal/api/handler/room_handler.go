package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharfindr/rental-api/internal/api/metrics"
	"github.com/gharfindr/rental-api/internal/core/ports"
	"github.com/gharfindr/rental-api/internal/infrastructure/storage"
)

// RoomHandler serves the room-listing CRUD endpoints.
type RoomHandler struct {
	rooms  ports.RoomService
	images *storage.DiskStore
}

func NewRoomHandler(rooms ports.RoomService, images *storage.DiskStore) *RoomHandler {
	return &RoomHandler{rooms: rooms, images: images}
}

// Create stores a new room listing owned by the caller.
//
// @Summary      Create a room listing
// @Tags         rooms
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.RoomListing
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /rooms [post]
func (h *RoomHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	form, err := bindRoomForm(c)
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

	room, err := h.rooms.Create(c.Request().Context(), actor, ports.CreateRoomInput{
		Description: form.Description,
		Floor:       form.Floor,
		Address:     form.Address,
		RentPrice:   form.RentPrice,
		Parking:     form.Parking,
		ContactNo:   form.ContactNo,
		Bathrooms:   form.Bathrooms,
		ImagePath:   imagePath,
	})
	if err != nil {
		return err
	}

	metrics.ListingsCreatedTotal.WithLabelValues("room").Inc()
	return c.JSON(http.StatusCreated, room)
}

// Get returns one room listing by id.
//
// @Summary      Get a room listing
// @Tags         rooms
// @Produce      json
// @Param        id  path  string  true  "Room id"
// @Success      200  {object}  domain.RoomListing
// @Failure      404  {object}  map[string]string
// @Router       /rooms/{id} [get]
func (h *RoomHandler) Get(c echo.Context) error {
	room, err := h.rooms.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

// List returns the caller's room listings, or every listing with ?show=all.
//
// @Summary      List room listings
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        show  query  string  false  "Pass 'all' to list every room"
// @Success      200  {array}  domain.RoomListing
// @Router       /rooms [get]
func (h *RoomHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	rooms, err := h.rooms.List(c.Request().Context(), ports.ListRoomsInput{
		Actor:   actor,
		ShowAll: c.QueryParam("show") == "all",
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rooms)
}

// Update replaces the mutable fields of a room listing. Only the owner or an
// admin may update.
//
// @Summary      Update a room listing
// @Tags         rooms
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Room id"
// @Success      200  {object}  domain.RoomListing
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /rooms/{id} [put]
func (h *RoomHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	form, err := bindRoomForm(c)
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

	room, err := h.rooms.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdateRoomInput{
		Description: form.Description,
		Floor:       form.Floor,
		Address:     form.Address,
		RentPrice:   form.RentPrice,
		Parking:     form.Parking,
		ContactNo:   form.ContactNo,
		Bathrooms:   form.Bathrooms,
		ImagePath:   imagePath,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

// Delete removes a room listing. Only the owner or an admin may delete.
//
// @Summary      Delete a room listing
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Room id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /rooms/{id} [delete]
func (h *RoomHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.rooms.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "room deleted"})
}

// saveImage stores the optional "roomImage" upload and returns its path.
// A missing file is not an error.
func (h *RoomHandler) saveImage(c echo.Context) (string, error) {
	file, err := c.FormFile("roomImage")
	if err != nil {
		return "", nil
	}
	path, err := h.images.Save(file)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "could not store image")
	}
	return path, nil
}
