// Package storage provides JSON-based persistence for olympiad snapshots.
//
// The storage package manages local snapshot files that track parsed entries
// across runs. Snapshots are stored in JSON format, with separate files for
// each subject filter (snapshot_<lesson>.json) and a combined file for the
// full list (snapshot.json). The default storage location is
// ~/.local/share/rsr-olymps/.
package storage
