package secondary

// Renderer defines the secondary port for rendering operator-authored templates.
// Implementations support sections and distinguish escaped from raw output.
type Renderer interface {
	Render(template string, view map[string]any) (string, error)
}
