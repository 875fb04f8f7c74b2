package library

// SeriesFilter specifies criteria for listing series.
type SeriesFilter struct {
	Watch  *bool
	Title  *string
	Limit  int // 0 = no limit
	Offset int
}

// EpisodeFilter specifies criteria for listing episodes.
type EpisodeFilter struct {
	SeriesID *int64
	Season   *int
	Limit    int
	Offset   int
}

// MovieFilter specifies criteria for listing movies.
type MovieFilter struct {
	Watch  *bool
	Title  *string
	Limit  int
	Offset int
}
