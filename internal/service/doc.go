// Package service contains the application use cases that sit between the
// HTTP handlers in internal/api and the store interfaces in internal/store.
//
// Services receive their dependencies through constructors, apply
// transactional boundaries where an operation touches the store more than
// once, and translate store failures into errors the API layer can map to
// status codes. They never depend on a concrete storage implementation.
//
// Token issuing and password verification live in the auth subpackage.
package service
