package patch

// Assign copies a provided value onto dst. Absent fields leave dst alone.
// Use it for non-nullable columns; an explicit null is ignored, callers that
// must reject null do so before merging.
func Assign[T any](dst *T, f Field[T]) bool {
	v, ok := f.Get()
	if !ok {
		return false
	}
	*dst = v
	return true
}

// AssignNullable copies a provided value or an explicit null onto a nullable
// column. Absent fields leave dst alone.
func AssignNullable[T any](dst **T, f Field[T]) bool {
	if !f.IsSet() {
		return false
	}
	*dst = f.Ptr()
	return true
}
