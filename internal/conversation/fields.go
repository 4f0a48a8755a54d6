package conversation

// Fields is the bag of answers collected by a session
type Fields map[string]any

// String returns the string stored under key, or ""
func (f Fields) String(key string) string {
	v, _ := f[key].(string)
	return v
}

// StringPtr returns the optional string stored under key
func (f Fields) StringPtr(key string) *string {
	v, _ := f[key].(*string)
	return v
}

// Int returns the int stored under key, or 0
func (f Fields) Int(key string) int {
	v, _ := f[key].(int)
	return v
}

// IntPtr returns the optional int stored under key
func (f Fields) IntPtr(key string) *int {
	v, _ := f[key].(*int)
	return v
}

// Int64 returns the int64 stored under key, or 0
func (f Fields) Int64(key string) int64 {
	v, _ := f[key].(int64)
	return v
}

// Has reports whether key was set
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}
