package static

import _ "embed"

//go:embed templates/preview.html
var PreviewTemplate string

//go:embed templates/memegen.yaml
var DefaultConfig string
