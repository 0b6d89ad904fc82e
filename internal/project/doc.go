// Package project turns a freshly fetched template into the user's own
// project: it deletes the template's version-control history and
// rewrites the manifest (package.json) name.
//
// The manifest is edited in place at the byte level (tidwall/sjson) rather
// than decoded into a Go map and re-marshaled, so fields keep their
// original order. JSONC comments, which some templates carry, are stripped
// first with tidwall/jsonc.
package project
