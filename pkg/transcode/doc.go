// Package transcode turns terminal escape-coded text into HTML fragments.
//
// Transcoding happens in two stateless steps. TranslateEscapes rewrites control
// sequences a browser cannot honor (erase line) into plain text equivalents, then
// a Converter maps the remaining SGR color and style codes to styled spans using a
// theme.Theme. Both steps are safe for concurrent use by independent sessions.
package transcode
