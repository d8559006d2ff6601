//go:build windows

package exec

const locateCommand = "where"
