package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageTemplates = []string{"dashboard", "auth_error"}

func NewHandler(deps HandlerDeps) (*Handler, error) {
	if deps.Days == nil || deps.Exports == nil || deps.Samples == nil || deps.Auth == nil || deps.I18n == nil {
		return nil, errors.New("handler dependencies are incomplete")
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.StreamContext == nil {
		deps.StreamContext = context.Background()
	}

	templates, err := parsePageTemplates(templateFuncMap(), pageTemplates)
	if err != nil {
		return nil, err
	}

	return &Handler{
		days:         deps.Days,
		exports:      deps.Exports,
		samples:      deps.Samples,
		auth:         deps.Auth,
		i18n:         deps.I18n,
		cookieSecure: deps.CookieSecure,
		streamCtx:    deps.StreamContext,
		log:          deps.Log.With("component", "api"),
		templates:    templates,
	}, nil
}

func parsePageTemplates(funcMap template.FuncMap, pages []string) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		parsed, err := template.New("base").Funcs(funcMap).ParseFS(
			templateFiles,
			"templates/base.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", page, err)
		}
		templates[page] = parsed
	}
	return templates, nil
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"t":  translateMessage,
		"tf": translateMessagef,
		"percent": func(value float64) string {
			return fmt.Sprintf("%.1f", value)
		},
		"lower": strings.ToLower,
	}
}

func translateMessage(messages map[string]string, key string) string {
	if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func translateMessagef(messages map[string]string, key string, args ...any) string {
	return fmt.Sprintf(translateMessage(messages, key), args...)
}

func (handler *Handler) render(c *fiber.Ctx, page string, status int, data any) error {
	tmpl, ok := handler.templates[page]
	if !ok {
		return fmt.Errorf("unknown page template %s", page)
	}
	var builder strings.Builder
	if err := tmpl.ExecuteTemplate(&builder, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).SendString(builder.String())
}
