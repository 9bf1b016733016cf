package interfaces

import "context"

// ScreenshotStore captures diagnostic screenshots. Capture never fails the caller;
// problems are logged by the store and the returned path is empty.
type ScreenshotStore interface {
	Capture(ctx context.Context, name string) string
}
