package domain

// ClassificationResult is what the classifier client always returns.
// UsedModel is false whenever the fallback category was substituted.
type ClassificationResult struct {
	Category  string `json:"category"`
	UsedModel bool   `json:"used_model"`
}
