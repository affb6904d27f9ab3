package process

// Capabilities describes what process creation can do on the host platform
type Capabilities struct {
	SupportsWindowSuppression bool
}

// DetectCapabilities reports the capabilities of the current platform
func DetectCapabilities() Capabilities {
	return platformCapabilities()
}

// ShouldHideConsole decides whether a worker is created without a console window
func (c Capabilities) ShouldHideConsole(debug bool) bool {
	return !debug && c.SupportsWindowSuppression
}
