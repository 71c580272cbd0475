package domain

// NextRating возвращает новое среднее и новый счётчик отзывов организатора
// после получения оценки r. Инкрементальное среднее, полная история оценок
// не нужна. При нулевом счётчике средним становится сама оценка.
func NextRating(rating float64, reviewCount int, r int) (float64, int) {
	newCount := reviewCount + 1
	newRating := (rating*float64(reviewCount) + float64(r)) / float64(newCount)
	return newRating, newCount
}
