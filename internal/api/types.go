// File path: internal/api/types.go
package api

import "github.com/edgeport/edgeport/internal/convert"

type convertRequest struct {
	Name       string `json:"name"`
	OriginPath string `json:"origin_path,omitempty"`
	Source     string `json:"source"`
}

type bundleRequest struct {
	// Files follows the collaborator contract: path -> source text,
	// pre-filtered to one function per directory.
	Files map[string]string `json:"files"`
}

type bundleResponse struct {
	BundleID string         `json:"bundle_id"`
	Bundle   convert.Bundle `json:"bundle"`
}

type advisoryResponse struct {
	Function string           `json:"function"`
	Advisory convert.Advisory `json:"advisory"`
}
