//go:build !windows

package exec

const locateCommand = "which"
