package mobi

import (
	"strings"
	"text/template"
)

// pageTemplate renders one MOBI content page: a single full-bleed image
// referenced by its embedded-resource index, matching the structure
// kojirou's own (now-absent) MOBI generator produced per its
// mobi_test.go fixture (`<div>.</div><img src="kindle:embed:N?mime=...">`).
var pageTemplate = template.Must(template.New("page").Parse(
	`<div>.</div><img src="kindle:embed:{{.}}?mime=image/jpeg">`,
))

func templateToString(t *template.Template, data interface{}) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return ""
	}
	return b.String()
}
