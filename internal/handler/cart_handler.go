package handler

import (
	"net/http"
	"strconv"

	"tmgear/internal/middleware"
	"tmgear/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// 商品一覧で表示しているスナップショット
type AddCartRequest struct {
	ID          int64            `json:"id" validate:"required,gt=0"`
	ShopID      *int64           `json:"shopId"`
	ProductName string           `json:"productName" validate:"max=255"`
	Category    string           `json:"category" validate:"max=100"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    string           `json:"imageUrl"`
	Image       string           `json:"image"`
}

type UpdateCartItemRequest struct {
	Delta int64 `json:"delta"`
}

// /cart 以下を登録（セッションcookie必須）
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	cg := g.Group("/cart")

	cg.GET("", h.getCart)
	cg.POST("/items", h.addItem)
	cg.POST("/products/:id", h.addProduct)
	cg.PATCH("/items/:id", h.patchItem)
	cg.DELETE("/items/:id", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.View(c.Request().Context(), middleware.SessionIDFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if req.Price == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "price is required"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), middleware.SessionIDFrom(c), usecase.AddCartInput{
		ID:          req.ID,
		ShopID:      req.ShopID,
		ProductName: req.ProductName,
		Category:    req.Category,
		Price:       *req.Price,
		ImageURL:    req.ImageURL,
		Image:       req.Image,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addProduct(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	out, err := h.uc.AddProduct(c.Request().Context(), middleware.SessionIDFrom(c), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) patchItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), middleware.SessionIDFrom(c), id, req.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), middleware.SessionIDFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
