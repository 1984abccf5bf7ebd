package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharfindr/rental-api/internal/core/ports"
)

// WishlistHandler manages the caller's saved rooms.
type WishlistHandler struct {
	wishlist ports.WishlistService
}

func NewWishlistHandler(wishlist ports.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

// List returns the rooms the caller has saved. Rooms deleted since they were
// saved are omitted.
//
// @Summary      List saved rooms
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.RoomListing
// @Router       /wishlist [get]
func (h *WishlistHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	rooms, err := h.wishlist.List(c.Request().Context(), actor.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rooms)
}

// Add saves a room on the caller's wishlist. Adding the same room twice is a
// no-op.
//
// @Summary      Save a room to the wishlist
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        roomID  path  string  true  "Room id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /wishlist/{roomID} [post]
func (h *WishlistHandler) Add(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.wishlist.Add(c.Request().Context(), actor.AccountID, c.Param("roomID")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "room saved to wishlist"})
}

// Remove drops a room from the caller's wishlist.
//
// @Summary      Remove a room from the wishlist
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Param        roomID  path  string  true  "Room id"
// @Success      200  {object}  messageResponse
// @Router       /wishlist/{roomID} [delete]
func (h *WishlistHandler) Remove(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.wishlist.Remove(c.Request().Context(), actor.AccountID, c.Param("roomID")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "room removed from wishlist"})
}
