// Package docs embeds the published API documents.
package docs

import _ "embed"

//go:embed v1/openapi.yml
var OpenAPIV1 []byte
