// Package extension holds the shared helpers of the clinekit extension
// core: environment lookup, configuration merging, value validation and
// startup checks.
package extension

// CoreVersion is the version of the extension core.
const CoreVersion = "1.0.0"
