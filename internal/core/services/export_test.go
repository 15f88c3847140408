package services

// Test hooks for the external services_test package.
var (
	NewReconcilerForTest = newReconciler
	NameSimilarity       = nameSimilarity
)
