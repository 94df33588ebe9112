package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/internal/usecase"
	"github.com/xujalz/Lost-And-Found/pkg/errors"
	"github.com/xujalz/Lost-And-Found/pkg/response"
)

// ItemHandler serves both lost and found reports; the kind is fixed per
// route group when the router is set up.
type ItemHandler struct {
	itemUseCase *usecase.ItemUseCase
	kind        string
}

func NewItemHandler(itemUseCase *usecase.ItemUseCase, kind string) *ItemHandler {
	return &ItemHandler{
		itemUseCase: itemUseCase,
		kind:        kind,
	}
}

type itemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Place       string `json:"place" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Contact     string `json:"contact" validate:"required"`
	DateTime    string `json:"date_time" validate:"required"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

func (r *itemRequest) toInput() (usecase.ItemInput, error) {
	dateTime, err := time.Parse(time.RFC3339, r.DateTime)
	if err != nil {
		return usecase.ItemInput{}, errors.BadRequest("date_time must be RFC 3339", err)
	}

	return usecase.ItemInput{
		Name:        r.Name,
		Description: r.Description,
		Place:       r.Place,
		Category:    r.Category,
		Contact:     r.Contact,
		DateTime:    dateTime,
		ImageURL:    r.ImageURL,
	}, nil
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input, err := req.toInput()
	if err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	item, err := h.itemUseCase.CreateItem(c.Request().Context(), userID, h.kind, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

// ListItems returns reports of this handler's kind, optionally filtered by
// the "search" query parameter.
func (h *ItemHandler) ListItems(c echo.Context) error {
	items, err := h.itemUseCase.ListItems(c.Request().Context(), h.kind, c.QueryParam("search"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.itemUseCase.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	if item.Kind != h.kind {
		return response.Error(c, errors.NotFound("Item", nil))
	}

	return response.Success(c, item)
}

func (h *ItemHandler) ListMyItems(c echo.Context) error {
	userID := c.Get("uid").(string)

	items, err := h.itemUseCase.ListMyItems(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	filtered := make([]*entity.Item, 0, len(items))
	for _, item := range items {
		if item.Kind == h.kind {
			filtered = append(filtered, item)
		}
	}

	return response.Success(c, filtered)
}

func (h *ItemHandler) UpdateItem(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input, err := req.toInput()
	if err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	item, err := h.itemUseCase.UpdateItem(c.Request().Context(), userID, c.Param("id"), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.itemUseCase.DeleteItem(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"status": "deleted",
	})
}
