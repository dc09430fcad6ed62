package common

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

//go:embed static/*
var CommonStaticFS embed.FS

var (
	baseCSS  []byte
	commonJS []byte
)

func init() {
	baseCSS, _ = CommonStaticFS.ReadFile("static/base.css")
	commonJS, _ = CommonStaticFS.ReadFile("static/common.js")
}

// NewApp creates a Fiber app rendering templates from templatesFS. API
// routes get JSON errors, everything else a plain error page.
func NewApp(templatesFS fs.FS, log *zap.Logger) *fiber.App {
	engine := html.NewFileSystem(http.FS(templatesFS), ".html")
	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= 500 {
				log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			if strings.HasPrefix(c.Path(), "/api/") {
				return JSONError(c, code, err.Error())
			}
			return c.Status(code).Render("templates/error", fiber.Map{
				"Title":   fmt.Sprintf("%d", code),
				"Message": err.Error(),
			})
		},
	})
	app.Use(RequestLogger(log))
	return app
}

// RequestLogger logs one line per request at debug level, warn for 4xx
// and error for 5xx.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Debug("request", fields...)
		}
		return err
	}
}

// SetupStaticFS mounts studio-specific and common static files on the app
func SetupStaticFS(app *fiber.App, studioStaticFS embed.FS) {
	staticFS, _ := fs.Sub(studioStaticFS, "static")
	app.Use("/static", filesystem.New(filesystem.Config{
		Root: http.FS(staticFS),
	}))

	app.Get("/common/static/base.css", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/css")
		return c.Send(baseCSS)
	})
	app.Get("/common/static/common.js", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "application/javascript")
		return c.Send(commonJS)
	})
}

// StartServer finds an available port, prints the URL, optionally opens a browser, and starts listening
func StartServer(app *fiber.App, port *int, name string, openBrowser bool) error {
	available := FindAvailablePort(*port)
	if available != *port {
		fmt.Printf("Port %d is in use, using port %d instead\n", *port, available)
		*port = available
	}

	url := fmt.Sprintf("http://localhost:%d", *port)
	fmt.Printf("🚀 roster %s starting on %s\n", name, url)

	if openBrowser {
		go OpenBrowser(url)
	}

	return app.Listen(fmt.Sprintf(":%d", *port))
}
