// Package pathutils expands and normalizes user-supplied file paths.
package pathutils
