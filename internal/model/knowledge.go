package model

// KnowledgeRecord is one question/answer entry of the knowledge index as
// stored in Elasticsearch. Records are written once at ingestion time and
// are immutable afterwards.
type KnowledgeRecord struct {
	RecordID          string    `json:"record_id"`
	Question          string    `json:"question"`
	Answer            string    `json:"answer"`
	QuestionEmbedding []float32 `json:"question_embedding"`
	ModelVersion      string    `json:"model_version"`
}

// RetrievedPassage is one similarity-search hit handed to the answer
// generator. Score is the engine's normalized cosine score in (0, 1],
// higher is more relevant. Passages are transient and never persisted.
type RetrievedPassage struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
}
