package controller

import "github.com/labstack/echo/v4"

type CalendarController interface {
	Crops(c echo.Context) error
	Create(c echo.Context) error
	List(c echo.Context) error
	Select(c echo.Context) error
	Lifecycle(c echo.Context) error
	ToggleTask(c echo.Context) error
	Delete(c echo.Context) error
}
