package model

import (
	"hash/fnv"
	"math"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDims is the width of the name embedding column.
const EmbeddingDims = 8

// NameEmbedding returns a small deterministic embedding for a recipe name.
// Each lower-cased word is hashed into a bucket and the result is
// L2-normalized, so names sharing words sit close under the <-> operator.
func NameEmbedding(text string) pgvector.Vector {
	vec := make([]float32, EmbeddingDims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[h.Sum32()%EmbeddingDims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm == 0 {
		vec[0] = 1
		return pgvector.NewVector(vec)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return pgvector.NewVector(vec)
}
