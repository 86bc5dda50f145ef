package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *DocsiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(cause error) *DocsiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid")
}

func ValidationFailed(field, reason string) *DocsiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

func UnresolvedDocs(ids []string) *DocsiteError {
	return New(CategoryContent, SeverityFatal, "sidebar references unknown documents").
		WithContext("ids", ids)
}

func BrokenLinks(count int) *DocsiteError {
	return New(CategoryContent, SeverityFatal, "documents contain broken links").
		WithContext("count", count)
}

// Output errors

func WriteFailed(path string, cause error) *DocsiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "failed to write output").
		WithContext("path", path)
}

func EncodeFailed(what string, cause error) *DocsiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "failed to encode").
		WithContext("what", what)
}
