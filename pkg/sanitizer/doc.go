// Package sanitizer provides input normalization for request data.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings or empty slices rather than errors; validation happens later.
//
// Normalization includes:
//   - Categories: Uppercase, drop everything but letters - " suv " becomes "SUV"
//   - IDs: Trim surrounding whitespace
//   - Slices: Remove duplicates and empty values after normalization
package sanitizer
