package generator

import "github.com/toyz/cmakesrc/internal/models"

// ListingGenerator renders a collected file list as a target_sources block
type ListingGenerator interface {
	// GenerateListing returns ok=false when files is empty
	GenerateListing(dir string, files models.FileList, target string, maxLineLength int) (block *models.GeneratedBlock, ok bool, err error)
}
