package rag

// AskRequest represents a question-answering request.
type AskRequest struct {
	// Question is the user's question to answer.
	Question string `json:"question"`
	// Sources restricts retrieval to documents at these absolute paths. If empty, searches all documents.
	Sources []string `json:"sources,omitempty"`
	// Ext restricts retrieval to documents with this extension (".pdf", ".txt", ".md").
	Ext string `json:"ext,omitempty"`
	// K optionally overrides the retrieved chunk count. Complexity-based selection applies when zero.
	K int `json:"k,omitempty"`
	// Standalone skips retrieval and sends the question to the model directly.
	Standalone bool `json:"standalone,omitempty"`
	// Debug enables debug mode, returning detailed retrieval information.
	Debug bool `json:"debug,omitempty"`
}

// Reference represents a chunk that was used in the answer.
type Reference struct {
	// Source is the absolute path of the document.
	Source string `json:"source"`
	// Name is the document file name.
	Name string `json:"name"`
	// Page is the 1-based page number for PDFs, 0 otherwise.
	Page int `json:"page,omitempty"`
	// ChunkIndex is the chunk index within the document.
	ChunkIndex int `json:"chunk_index"`
	// Score is the final relevance score.
	Score float32 `json:"score"`
}

// AskResponse represents the response to a question.
type AskResponse struct {
	// Answer is the generated answer from the model.
	Answer string `json:"answer"`
	// References are the chunks that were used to generate the answer.
	References []Reference `json:"references"`
	// Complex reports whether the question was classified as complex.
	Complex bool `json:"complex"`
	// Debug contains debug information when debug mode is enabled.
	Debug *DebugInfo `json:"debug,omitempty"`
}

// SearchRequest represents a retrieval-only request.
type SearchRequest struct {
	// Query is the search query.
	Query string `json:"query"`
	// Sources restricts retrieval to documents at these absolute paths.
	Sources []string `json:"sources,omitempty"`
	// Ext restricts retrieval to documents with this extension.
	Ext string `json:"ext,omitempty"`
	// K is the desired result count. Defaults apply when zero.
	K int `json:"k,omitempty"`
}

// SearchMatch is a single retrieval result.
type SearchMatch struct {
	Source     string  `json:"source"`
	Name       string  `json:"name"`
	Page       int     `json:"page,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float32 `json:"score"`
	Text       string  `json:"text"`
}

// DebugInfo contains detailed retrieval information for debugging and evaluation.
type DebugInfo struct {
	// K is the chunk count used for retrieval.
	K int `json:"k"`
	// MaxTokens is the generation budget used.
	MaxTokens int `json:"max_tokens"`
	// RetrievedChunks contains all retrieved chunks with scores and ranks.
	RetrievedChunks []RetrievedChunk `json:"retrieved_chunks"`
}

// RetrievedChunk represents a retrieved chunk with scoring information.
type RetrievedChunk struct {
	// ChunkID is the stable chunk identifier.
	ChunkID string `json:"chunk_id"`
	// Source is the absolute path of the document.
	Source string `json:"source"`
	// ScoreVector is the vector similarity score.
	ScoreVector float32 `json:"score_vector"`
	// ScoreLexical is the lexical overlap score.
	ScoreLexical float32 `json:"score_lexical"`
	// ScoreFinal is the combined final score.
	ScoreFinal float32 `json:"score_final"`
	// Rank is the rank of this chunk in the retrieval results (1-based).
	Rank int `json:"rank"`
	// Text is the chunk text.
	Text string `json:"text"`
}
