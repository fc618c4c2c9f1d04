package lox

func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	result := make([]R, len(collection))

	for i, item := range collection {
		r, err := iteratee(item)
		if err != nil {
			return nil, err
		}

		result[i] = r
	}

	return result, nil
}

func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}

// MapValues converts every value of a map, keeping its keys.
func MapValues[K comparable, T, R any](collection map[K]T, iteratee func(key K, value T) R) map[K]R {
	result := make(map[K]R, len(collection))

	for k, v := range collection {
		result[k] = iteratee(k, v)
	}

	return result
}
