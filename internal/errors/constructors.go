package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *DocForgeError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *DocForgeError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *DocForgeError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Source and loading errors

func SourceUnreadable(source string, cause error) *DocForgeError {
	return Wrap(cause, CategorySource, SeverityFatal, "data source is unreadable").
		WithContext("source", source)
}

func SourceUndetectable(source string) *DocForgeError {
	return New(CategorySource, SeverityFatal, "cannot determine source kind").
		WithContext("source", source)
}

func SourceEmpty(source string) *DocForgeError {
	return New(CategorySource, SeverityFatal, "data source produced no records").
		WithContext("source", source)
}

func ParseFailed(source string, cause error) *DocForgeError {
	return Wrap(cause, CategoryParse, SeverityFatal, "data source could not be parsed").
		WithContext("source", source)
}

func RequestFailed(url string, cause error) *DocForgeError {
	return Wrap(cause, CategoryNetwork, SeverityFatal, "request failed").
		WithContext("url", url)
}

func UnexpectedStatus(url string, status int) *DocForgeError {
	return New(CategoryNetwork, SeverityFatal, "unexpected response status").
		WithContext("url", url).
		WithContext("status", status)
}

// Processing errors

func NormalizeFailed(index int, cause error) *DocForgeError {
	return Wrap(cause, CategoryNormalize, SeverityWarning, "record could not be normalized").
		WithContext("record", index)
}

func ExportFailed(format string, cause error) *DocForgeError {
	return Wrap(cause, CategoryExport, SeverityError, "record export failed").
		WithContext("format", format)
}

func TemplateFailed(reference string, cause error) *DocForgeError {
	return Wrap(cause, CategoryTemplate, SeverityError, "template rendering failed").
		WithContext("template", reference)
}

func CapabilityUnavailable(format, capability string) *DocForgeError {
	return New(CategoryCapability, SeverityWarning, "rendering capability unavailable").
		WithContext("format", format).
		WithContext("capability", capability)
}

func OutputDirError(dir string, cause error) *DocForgeError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output directory is not writable").
		WithContext("dir", dir)
}
