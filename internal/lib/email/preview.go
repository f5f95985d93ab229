package email

import "github.com/pkg/errors"

// PreviewData contains sample template data for local previews,
// keyed by template name and then by template variable.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserFirstName": "Ada",
	},
}

// Preview renders a template with its sample data.
func Preview(name Template) (string, error) {
	data, ok := PreviewData[name]
	if !ok {
		return "", errors.Errorf("no preview data for template %q", name)
	}
	return Render(name, data)
}
