package domain

// Vector collections.
const (
	CollectionProducts = "products"
	CollectionPolicies = "policies"
)

// VectorDocument is one embedded entry of a collection.
type VectorDocument struct {
	ID        string
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// VectorMatch is a search hit. Higher scores are more similar.
type VectorMatch struct {
	ID       string
	Content  string
	Metadata map[string]string
	Score    float64
}
