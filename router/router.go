package router

import (
	"github.com/labstack/echo/v4"

	"cropcal/pkg/middleware"
)

type CalendarHandlers interface {
	Crops(echo.Context) error
	Create(echo.Context) error
	List(echo.Context) error
	Select(echo.Context) error
	Lifecycle(echo.Context) error
	ToggleTask(echo.Context) error
	Delete(echo.Context) error
}

type AuthHandlers interface {
	Login(echo.Context) error
	Logout(echo.Context) error
	WhoAmI(echo.Context) error
}

func New(
	e *echo.Echo,
	headerAuth bool,
	calCtrl CalendarHandlers,
	authCtrl AuthHandlers,
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(middleware.Session(headerAuth))
	api := e.Group("")

	e.GET("/health", healthCtrl.Health)

	api.POST("/login", authCtrl.Login)
	api.POST("/logout", authCtrl.Logout)
	api.GET("/whoami", authCtrl.WhoAmI)

	api.GET("/crops", calCtrl.Crops)

	g := api.Group("/calendars")
	g.POST("", calCtrl.Create)
	g.GET("", calCtrl.List)
	g.GET("/:id", calCtrl.Select)
	g.GET("/:id/lifecycle", calCtrl.Lifecycle)
	g.PATCH("/:id/tasks/:index", calCtrl.ToggleTask)
	g.DELETE("/:id", calCtrl.Delete)
	return e
}
