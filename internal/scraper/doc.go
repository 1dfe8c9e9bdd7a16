// Package scraper provides HTTP fetching and HTML parsing for the Russian
// school olympiad list published at rsr-olymp.ru.
//
// The heart of the package is Parser, a table state machine layered on the
// incremental tag scanner from internal/markup. It extracts one entry per
// subject/level combination from the olympiad table, tolerating the
// malformed markup, merged cells, and rowspan continuation rows that the
// real page exhibits. Scraper wraps the network side: it fetches the page,
// resolves its character encoding, and streams the body into a Parser.
package scraper
