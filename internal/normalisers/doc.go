// Package normalisers provides the TextConverter implementations that turn
// a raw bill document into plain text, and the registry that picks among
// them by MIME type and priority.
//
// Converters are registered with the Registry at startup.
package normalisers
