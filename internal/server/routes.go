package server

import (
	"tmgear/internal/config"
	"tmgear/internal/handler"
	"tmgear/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health   *handler.HealthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Health.RegisterRoutes(e)

	//カタログはセッション不要
	h.Product.RegisterRoutes(e.Group(""))

	//カート・注文はセッションcookieで持ち主を決める
	sg := e.Group("", middleware.CartSession(cfg))
	h.Cart.RegisterRoutes(sg)
	h.Checkout.RegisterRoutes(sg)
}
