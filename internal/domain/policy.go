package domain

// PolicyChunkType tags passages cut from the store policy documents.
const PolicyChunkType = "knowledge"

// PolicyDocument is a free-text policy source before chunking.
type PolicyDocument struct {
	Name string
	Text string
}

// PolicyChunk is an indexed window of a policy document.
type PolicyChunk struct {
	ID         string
	Source     string
	Type       string
	ChunkIndex int
	Content    string
}
