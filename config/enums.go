package config

//go:generate go tool go-enum --marshal --names --values

// Requested output form.
// ENUM(css, style, link)
type OutputMode int

// Ext returns file extension for output mode.
func (o OutputMode) Ext() string {
	switch o {
	case OutputModeCss:
		return ".css"
	case OutputModeStyle, OutputModeLink:
		return ".html"
	default:
		// this should never happen
		panic("unsupported output mode requested")
	}
}
