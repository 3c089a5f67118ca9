package utils

import "hash/fnv"

// Mix64 combines two fingerprints. The result depends on argument order.
func Mix64(a, b uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(U64ToBytes(a))
	_, _ = h.Write(U64ToBytes(b))
	return h.Sum64()
}

// MixAll folds fingerprints left to right, starting from seed.
func MixAll(seed uint64, vals ...uint64) uint64 {
	for _, v := range vals {
		seed = Mix64(seed, v)
	}
	return seed
}
