// Package markup implements a tolerant, incremental HTML tag scanner.
//
// The scanner consumes raw markup in arbitrary chunks and reports structural
// events (start tag, end tag, text run) to a TokenHandler. It is not a DOM
// parser: it keeps no element tree and enforces no nesting rules, which lets
// it survive the unclosed tags, stray close tags, and attribute junk found on
// real published pages. Consumers that need structure (such as the table
// parser in internal/scraper) build their own state machine on top of the
// event stream.
package markup
