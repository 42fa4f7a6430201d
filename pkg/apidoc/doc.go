// Package apidoc describes the JSON registration API as an OpenAPI 3 document
// derived from the form model, and uses the request schema to check payload
// shape before values reach the form.
package apidoc
