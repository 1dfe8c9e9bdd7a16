// Package cli implements the command-line interface for rsr-olymps.
//
// The cli package provides the Cobra-based CLI with support for checking the
// RSR olympiad list, filtering by subject/level/name, formatting output
// (text/JSON), sorting, and managing snapshots. It coordinates the scraper,
// storage, filter, and olymp packages to fetch, persist, and report on
// newly-listed olympiads.
package cli
