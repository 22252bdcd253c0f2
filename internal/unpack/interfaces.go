package unpack

import (
	"context"

	"github.com/ytget/vrca-downloader/internal/model"
)

// Unpacker defines the interface for the unpack service.
type Unpacker interface {
	// Run drives the reset, load and export calls for filePath against the
	// service listening on port. It never returns a bare error; the outcome
	// is carried in the result's State.
	Run(ctx context.Context, filePath, port string) model.UnpackResult
}
