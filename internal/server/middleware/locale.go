// file: internal/server/middleware/locale.go
// version: 1.0.0
// guid: bf35b6ae-ac56-410d-8123-a31db055e296

package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jdfalk/library-catalog/internal/i18n"
)

const contextPrinterKey = "i18n_printer"

// Locale resolves the request's Accept-Language header once and stores the
// matching message printer on the context.
func Locale(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := tr.Match(c.GetHeader("Accept-Language"))
		c.Set(contextPrinterKey, i18n.NewPrinter(tag))
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

// Printer returns the request's message printer, or a pt-BR printer when the
// Locale middleware did not run.
func Printer(c *gin.Context) *message.Printer {
	if v, ok := c.Get(contextPrinterKey); ok {
		if p, ok := v.(*message.Printer); ok {
			return p
		}
	}
	return i18n.NewPrinter(language.BrazilianPortuguese)
}

// AbortWithError stops the chain with a localized `{"errors": [...]}` body.
func AbortWithError(c *gin.Context, status int, key string, args ...any) {
	c.AbortWithStatusJSON(status, gin.H{
		"errors": []string{Printer(c).Sprintf(key, args...)},
	})
}
