package dashboard

import "io"

// Renderer is the template contract the controller needs. go-template's
// renderer satisfies it.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
