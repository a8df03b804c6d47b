// Package session holds the selection and navigation state of one interactive run.
//
// A Session moves through the Browsing, Deleting and Done phases. Browsing accepts
// cursor movement, selection toggles, confirmation and quit. Deleting drains the
// selection one branch per Step through a Deleter. Done is terminal.
package session
