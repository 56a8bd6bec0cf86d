// Package openapi derives wizard steps from the request body of an OpenAPI 3
// operation, so an API that already describes its payload can be collected
// step by step without a hand written definition.
package openapi
