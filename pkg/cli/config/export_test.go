package config

// SetPath sets the configuration file path for testing
func (e *Engine) SetPath(path string) {
	e.path = path
}
