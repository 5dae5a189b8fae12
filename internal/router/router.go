package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"courseware/internal/auth"
	"courseware/internal/config"
	"courseware/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	courseHandler *handler.CourseHandler,
	lessonHandler *handler.LessonHandler,
	slideHandler *handler.SlideHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Bearer-token resolution. Invalid or missing tokens never reject here;
	// they leave the request anonymous and the route guards decide.
	authn := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
	})

	guard := auth.NewGuard(cfg.StrictForbidden)
	teacherOnly := guard.Require(auth.IsAuthenticated, auth.IsTeacher)
	studentOnly := guard.Require(auth.IsAuthenticated, auth.IsStudent)

	// Authentication routes. Refresh and logout work off the cookie alone,
	// so none of these need the bearer middleware. Logout is POST-only; any
	// other method answers 405 before the cookie is even looked at.
	core := e.Group("/core")
	core.POST("/login/", authHandler.Login)
	core.POST("/refresh/", authHandler.Refresh)
	core.POST("/verify/", authHandler.Verify)
	core.POST("/logout/", authHandler.Logout)
	core.POST("/signup/", authHandler.Signup)

	// Full user management, admins only.
	users := core.Group("/user", authn, guard.Require(auth.IsAdmin))
	users.GET("/", userHandler.List)
	users.POST("/", userHandler.Create)
	users.GET("/:id/", userHandler.Get)
	users.PUT("/:id/", userHandler.Update)
	users.DELETE("/:id/", userHandler.Delete)

	// Content hierarchy. List reads are open; detail reads and all writes
	// require a teacher, slide reads a student.
	api := e.Group("/api", authn)

	api.GET("/cat/", categoryHandler.List)
	api.POST("/cat/new", categoryHandler.Create, teacherOnly)
	api.GET("/cat/:id/", categoryHandler.Get, teacherOnly)
	api.PUT("/cat/:id/", categoryHandler.Update, teacherOnly)
	api.DELETE("/cat/:id/", categoryHandler.Delete, teacherOnly)

	api.GET("/course/", courseHandler.List)
	api.POST("/course/new", courseHandler.Create, teacherOnly)
	api.GET("/course/:id/", courseHandler.Get, teacherOnly)
	api.PUT("/course/:id/", courseHandler.Update, teacherOnly)
	api.DELETE("/course/:id/", courseHandler.Delete, teacherOnly)

	api.GET("/lesson/", lessonHandler.List)
	api.POST("/lesson/new", lessonHandler.Create, teacherOnly)
	api.GET("/lesson/:id/", lessonHandler.Get, teacherOnly)
	api.PUT("/lesson/:id/", lessonHandler.Update, teacherOnly)
	api.DELETE("/lesson/:id/", lessonHandler.Delete, teacherOnly)

	api.GET("/lesson/:id/slides/", slideHandler.List, studentOnly)
	api.POST("/lesson/:id/slides/new", slideHandler.Create, teacherOnly)
	api.GET("/lesson/:id/slides/:position/", slideHandler.Get, studentOnly)
	api.PUT("/lesson/:id/slides/:position/", slideHandler.Update, teacherOnly)
	api.DELETE("/lesson/:id/slides/:position/", slideHandler.Delete, teacherOnly)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
