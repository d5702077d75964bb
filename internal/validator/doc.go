// Package validator provides struct validation for FlowScope.
//
// This package wraps go-playground/validator to provide:
//   - Consistent validation across all handlers
//   - Human-readable error messages
//   - Structured validation error responses
//
// # Usage
//
// Use validator.Validate() directly or through dto.ParseAndValidate():
//
//	if err := validator.Validate(myStruct); err != nil {
//	    // err is a validator.ValidationErrors
//	}
//
// # Custom Validations
//
// Custom validations are registered in the init() function. The
// "traceid" and "spanid" tags check W3C identifier formats.
// The validator instance is package-level and thread-safe.
package validator
