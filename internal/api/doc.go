// Package api contains the HTTP handlers, request/response models, and
// error mapping for the REST API. Handlers decode and validate requests,
// call into the service layer, and translate service errors into safe
// wire responses.
package api
