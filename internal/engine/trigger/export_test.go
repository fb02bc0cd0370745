package trigger

// NormalizeSpec exposes normalizeSpec for testing.
var NormalizeSpec = normalizeSpec
