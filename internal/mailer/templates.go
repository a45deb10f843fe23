package mailer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const excerptLength = 280

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	policy = bluemonday.UGCPolicy()
)

// Render converts markdown to sanitized HTML.
func Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

func excerpt(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= excerptLength {
		return string(runes)
	}
	return string(runes[:excerptLength]) + "…"
}

func WelcomeEmail(nome string) (subject string, html string, err error) {
	body := fmt.Sprintf(`## Ciao %s!

Grazie per esserti registrato. Ora puoi pubblicare i tuoi articoli sul nostro blog!
`, nome)

	html, err = Render(body)
	return "Benvenuto su StriveBlog!", html, err
}

func PostPublishedEmail(nome string, title string, content string) (subject string, html string, err error) {
	body := fmt.Sprintf(`## Complimenti %s!

Hai appena pubblicato un nuovo post: **%s**.

---

%s
`, nome, title, excerpt(content))

	html, err = Render(body)
	return "Hai pubblicato un nuovo articolo!", html, err
}
