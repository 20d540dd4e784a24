// Package graph defines the part tree of a satellite.
// A satellite owns an arena of parts; every part except the root is linked
// to its parent through a Connection naming one connector on each side.
// A Fleet is the collection of satellites built by one construction session.
package graph
