package trainer

import (
	"math"
	"math/rand"

	"ai-detector/internal/models"
)

// Split shuffles docs with a permutation seeded by seed and holds out
// ceil(len(docs)*testSize) of them for evaluation. The same input, testSize
// and seed always produce the same partitions.
func Split(docs []models.Document, testSize float64, seed int64) (train, test []models.Document, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, models.Configf("test_size must be in (0, 1), got %g", testSize)
	}
	n := len(docs)
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest == 0 || nTest >= n {
		return nil, nil, models.Configf("corpus of %d documents cannot be split with test_size %g", n, testSize)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = make([]models.Document, 0, nTest)
	train = make([]models.Document, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, docs[idx])
		} else {
			train = append(train, docs[idx])
		}
	}
	return train, test, nil
}
