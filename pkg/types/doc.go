// Package types contains the core entities exchanged during dependency
// resolution: package identities, dependency requirements, features, and
// the validated Summary snapshot each package presents to a resolver.
//
// Everything in this package is a plain value. A Summary never mutates
// shared state and carries no back-references, so instances are freely
// cloneable and shareable.
package types
